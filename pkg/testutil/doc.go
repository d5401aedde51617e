// Package testutil provides utilities for testing stagedir components.
//
// Key components:
//   - TestEnvironment: staging environment with an output directory, a
//     fake build environment and a recording announcer
//   - NewTestFS: in-memory afero filesystem for fast, isolated tests
//   - WriteTree / ReadTree: declare a directory tree inline and read a
//     mirrored one back for comparison
//
// Usage guidelines:
//   - Copy-mode tests should use EnvMemoryOnly
//   - Link-mode tests need EnvIsolated, the in-memory filesystem has no symlinks
//   - All test data should be defined inline, not in external files
package testutil
