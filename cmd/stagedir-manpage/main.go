package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/stagedir/internal/cli"
	"github.com/arthur-debert/stagedir/internal/version"
)

func main() {
	header := &doc.GenManHeader{
		Title:   "STAGEDIR",
		Section: "1",
		Source:  "stagedir " + version.Version,
		Manual:  "stagedir manual",
	}

	if err := doc.GenMan(cli.NewRootCmd(), header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
