// Package types defines the interfaces shared across stagedir: the
// filesystem the walker and mirrors operate on, the environment that
// dependency directories are resolved from, and the announcer that
// talks to the build orchestrator.
package types
