package testutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/arthur-debert/stagedir/pkg/types"
)

// Tree describes directory contents by relative path. Keys ending in "/"
// are directories; every other key is a file holding its value.
type Tree map[string]string

// Paths returns the tree's keys in sorted order
func (tr Tree) Paths() []string {
	paths := make([]string, 0, len(tr))
	for p := range tr {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// WriteTree creates tree below root, making parents as needed.
func WriteTree(t *testing.T, fsys types.FS, root string, tree Tree) {
	t.Helper()

	if err := fsys.MkdirAll(root, 0755); err != nil {
		t.Fatalf("Failed to create root %s: %v", root, err)
	}

	for _, rel := range tree.Paths() {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			if err := fsys.MkdirAll(path, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", path, err)
			}
			continue
		}
		if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create parent directories for %s: %v", path, err)
		}
		if err := fsys.WriteFile(path, []byte(tree[rel]), 0644); err != nil {
			t.Fatalf("Failed to create file %s: %v", path, err)
		}
	}
}

// ReadTree reads everything below root back into a Tree, following
// symlinks. It is the inverse of WriteTree.
func ReadTree(t *testing.T, fsys types.FS, root string) Tree {
	t.Helper()

	tree := Tree{}
	var read func(dir string)
	read = func(dir string) {
		entries, err := fsys.ReadDir(dir)
		if err != nil {
			t.Fatalf("Failed to list %s: %v", dir, err)
		}
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			rel, err := filepath.Rel(root, path)
			if err != nil {
				t.Fatalf("Failed to relativize %s: %v", path, err)
			}
			rel = filepath.ToSlash(rel)

			info, err := fsys.Stat(path)
			if err != nil {
				t.Fatalf("Failed to stat %s: %v", path, err)
			}
			if info.IsDir() {
				tree[rel+"/"] = ""
				read(path)
				continue
			}
			content, err := fsys.ReadFile(path)
			if err != nil {
				t.Fatalf("Failed to read %s: %v", path, err)
			}
			tree[rel] = string(content)
		}
	}
	read(root)
	return tree
}

// IsSymlink reports whether path is a symlink, without following it.
func IsSymlink(t *testing.T, fsys types.FS, path string) bool {
	t.Helper()

	info, err := fsys.Lstat(path)
	if err != nil {
		t.Fatalf("Failed to lstat %s: %v", path, err)
	}
	return info.Mode()&fs.ModeSymlink != 0
}
