// Package config loads staging plans for the stagedir command.
//
// A plan names the staging key and the directories and dependencies to
// stage. Sources are layered, later ones winning:
//
//  1. built-in defaults (embedded/defaults.toml)
//  2. a plan file, TOML or YAML by extension
//  3. STAGEDIR_* environment variables (STAGEDIR_KEY, STAGEDIR_DIRS=a,b, ...)
//
// Command-line flags are applied by the caller after loading.
package config
