// pkg/config/loader_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Plan files in t.TempDir, STAGEDIR_* via t.Setenv
// PURPOSE: Verify plan loading, layering and validation

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/stagedir/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePlan(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigurationDefaults(t *testing.T) {
	cfg, err := LoadConfiguration("")
	require.NoError(t, err)

	assert.Equal(t, "cargo", cfg.Prefix)
	assert.Equal(t, 0, cfg.MaxDepth)
	assert.Empty(t, cfg.Key)
	assert.False(t, cfg.HasStaging())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigurationTOML(t *testing.T) {
	path := writePlan(t, "stage.toml", `
key = "include"
dirs = ["include", "generated/include"]
deps = ["zlib"]
merge = ["openssl"]
manifest = "out/manifest.toml"
max_depth = 64

[[links]]
src = "assets"
dest = "out/assets"
`)

	cfg, err := LoadConfiguration(path)
	require.NoError(t, err)

	assert.Equal(t, "include", cfg.Key)
	assert.Equal(t, []string{"include", "generated/include"}, cfg.Dirs)
	assert.Equal(t, []string{"zlib"}, cfg.Deps)
	assert.Equal(t, []string{"openssl"}, cfg.Merge)
	assert.Equal(t, "out/manifest.toml", cfg.Manifest)
	assert.Equal(t, 64, cfg.MaxDepth)
	assert.Equal(t, []LinkSpec{{Src: "assets", Dest: "out/assets"}}, cfg.Links)
	assert.Equal(t, "cargo", cfg.Prefix, "defaults survive when the plan does not set them")
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigurationYAML(t *testing.T) {
	path := writePlan(t, "stage.yaml", `
key: lib
deps:
  - a
  - b
links:
  - src: bin
    dest: out/bin
`)

	cfg, err := LoadConfiguration(path)
	require.NoError(t, err)

	assert.Equal(t, "lib", cfg.Key)
	assert.Equal(t, []string{"a", "b"}, cfg.Deps)
	assert.Equal(t, []LinkSpec{{Src: "bin", Dest: "out/bin"}}, cfg.Links)
}

func TestLoadConfigurationEnvOverridesFile(t *testing.T) {
	path := writePlan(t, "stage.toml", `
key = "include"
deps = ["zlib"]
`)
	t.Setenv("STAGEDIR_KEY", "lib")
	t.Setenv("STAGEDIR_DEPS", "png,jpeg")
	t.Setenv("STAGEDIR_MAX_DEPTH", "12")

	cfg, err := LoadConfiguration(path)
	require.NoError(t, err)

	assert.Equal(t, "lib", cfg.Key)
	assert.Equal(t, []string{"png", "jpeg"}, cfg.Deps)
	assert.Equal(t, 12, cfg.MaxDepth)
}

func TestLoadConfigurationErrors(t *testing.T) {
	t.Run("unsupported_extension", func(t *testing.T) {
		_, err := LoadConfiguration(writePlan(t, "stage.ini", "key=x"))
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})

	t.Run("missing_file", func(t *testing.T) {
		_, err := LoadConfiguration(filepath.Join(t.TempDir(), "absent.toml"))
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})

	t.Run("malformed_toml", func(t *testing.T) {
		_, err := LoadConfiguration(writePlan(t, "stage.toml", "key = "))
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty_plan", Config{Prefix: "cargo"}, false},
		{"staging_with_key", Config{Prefix: "cargo", Key: "include", Dirs: []string{"inc"}}, false},
		{"staging_without_key", Config{Prefix: "cargo", Deps: []string{"zlib"}}, true},
		{"negative_depth", Config{Prefix: "cargo", MaxDepth: -1}, true},
		{"empty_prefix", Config{}, true},
		{"incomplete_link", Config{Prefix: "cargo", Links: []LinkSpec{{Src: "a"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDefaultsContent(t *testing.T) {
	assert.Contains(t, DefaultsContent(), `prefix = "cargo"`)
}
