// pkg/testutil/environment.go
// DEPENDENCIES: filesystem, environment, announce
// PURPOSE: Provide a staging test environment with all collaborators faked

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/stagedir/pkg/announce"
	"github.com/arthur-debert/stagedir/pkg/environment"
	"github.com/arthur-debert/stagedir/pkg/filesystem"
	"github.com/arthur-debert/stagedir/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// DefaultLinksName is the package link name TestEnvironment declares
const DefaultLinksName = "testpkg"

// TestEnvironment bundles a filesystem, a fake build environment and a
// recording announcer around a scratch directory.
type TestEnvironment struct {
	// Base is the scratch directory everything else lives in
	Base string

	// OutDir is what OUT_DIR points at
	OutDir string

	FS        types.FS
	Announcer *announce.Recorder

	Type EnvType

	t    *testing.T
	vars map[string]string
}

// NewTestEnvironment creates a new test environment with OUT_DIR and
// CARGO_MANIFEST_LINKS set.
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{
		t:         t,
		Type:      envType,
		Announcer: announce.NewRecorder(),
		vars:      map[string]string{},
	}

	switch envType {
	case EnvMemoryOnly:
		env.Base = "/virtual"
		env.FS = NewTestFS()
	case EnvIsolated:
		env.Base = t.TempDir()
		env.FS = filesystem.NewOS()
	}

	env.OutDir = filepath.Join(env.Base, "out")
	env.Setenv("OUT_DIR", env.OutDir)
	env.Setenv("CARGO_MANIFEST_LINKS", DefaultLinksName)

	return env
}

// Path joins elements onto the environment's base directory
func (env *TestEnvironment) Path(elem ...string) string {
	return filepath.Join(append([]string{env.Base}, elem...)...)
}

// Setenv sets a variable in the fake build environment
func (env *TestEnvironment) Setenv(name, value string) {
	env.vars[name] = value
}

// Unsetenv removes a variable from the fake build environment
func (env *TestEnvironment) Unsetenv(name string) {
	delete(env.vars, name)
}

// Environment returns a snapshot of the fake build environment
func (env *TestEnvironment) Environment() types.Environment {
	return environment.FromMap(env.vars)
}

// WriteTree creates tree below the base-relative directory rel and
// returns its absolute path
func (env *TestEnvironment) WriteTree(rel string, tree Tree) string {
	env.t.Helper()
	root := env.Path(rel)
	WriteTree(env.t, env.FS, root, tree)
	return root
}

// ReadTree reads the tree below an absolute path
func (env *TestEnvironment) ReadTree(root string) Tree {
	env.t.Helper()
	return ReadTree(env.t, env.FS, root)
}
