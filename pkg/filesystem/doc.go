// Package filesystem provides implementations of types.FS: the OS
// filesystem used for real staging and an afero-backed one used by
// tests and by callers that stage into a virtual tree.
package filesystem
