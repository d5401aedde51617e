package types

import (
	"io"
	"io/fs"
)

// FS is the filesystem surface the walker and mirrors operate on
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Open(name string) (io.ReadCloser, error)
	// Create opens name for writing, truncating it if it exists
	Create(name string, perm fs.FileMode) (io.WriteCloser, error)
	Chmod(name string, mode fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Remove(name string) error

	// Lstat does not follow a final symlink. Filesystems without
	// symlink support fall back to Stat.
	Lstat(name string) (fs.FileInfo, error)
}

// Environment is a read-only view of named string values, normally the
// process environment
type Environment interface {
	// Lookup returns the value of name and whether it was set
	Lookup(name string) (string, bool)
}

// Announcer sends directives to the build orchestrator
type Announcer interface {
	// RerunIfChanged asks for a rebuild when path changes
	RerunIfChanged(path string) error

	// Publish exposes key=value to dependent packages
	Publish(key, value string) error
}
