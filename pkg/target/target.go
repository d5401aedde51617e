// Package target computes where the build writes its artifacts.
package target

import (
	"path/filepath"

	"github.com/arthur-debert/stagedir/pkg/errors"
	"github.com/arthur-debert/stagedir/pkg/types"
)

// Environment variable names
const (
	EnvTargetDir   = "CARGO_TARGET_DIR"
	EnvManifestDir = "CARGO_MANIFEST_DIR"
	EnvTarget      = "TARGET"
	EnvHost        = "HOST"
	EnvProfile     = "PROFILE"
)

// Dir returns <root>/[<target>/]<profile>. The root is CARGO_TARGET_DIR
// when set, otherwise CARGO_MANIFEST_DIR/target. The target triple only
// appears when cross compiling, i.e. when TARGET differs from HOST.
func Dir(env types.Environment) (string, error) {
	root, ok := env.Lookup(EnvTargetDir)
	if !ok {
		manifestDir, err := lookup(env, EnvManifestDir)
		if err != nil {
			return "", err
		}
		root = filepath.Join(manifestDir, "target")
	}

	triple, err := lookup(env, EnvTarget)
	if err != nil {
		return "", err
	}
	host, err := lookup(env, EnvHost)
	if err != nil {
		return "", err
	}
	profile, err := lookup(env, EnvProfile)
	if err != nil {
		return "", err
	}

	if triple == host {
		return filepath.Join(root, profile), nil
	}
	return filepath.Join(root, triple, profile), nil
}

func lookup(env types.Environment, name string) (string, error) {
	value, ok := env.Lookup(name)
	if !ok {
		return "", errors.Newf(errors.ErrLookupMissing, "environment variable %s not found", name).
			WithDetail("variable", name)
	}
	return value, nil
}
