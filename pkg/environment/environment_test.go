// pkg/environment/environment_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Process environment (t.Setenv), dotenv files in t.TempDir
// PURPOSE: Verify lookups and layering order of environment sources

package environment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMap(t *testing.T) {
	e := FromMap(map[string]string{
		"OUT_DIR":   "/out",
		"EMPTY_VAR": "",
	})

	value, ok := e.Lookup("OUT_DIR")
	assert.True(t, ok)
	assert.Equal(t, "/out", value)

	value, ok = e.Lookup("EMPTY_VAR")
	assert.True(t, ok, "empty values are still set")
	assert.Equal(t, "", value)

	_, ok = e.Lookup("MISSING")
	assert.False(t, ok)
}

func TestFromProcess(t *testing.T) {
	t.Setenv("DEP_ZLIB_INCLUDE", "/deps/zlib/include")

	e, err := FromProcess()
	require.NoError(t, err)

	value, ok := e.Lookup("DEP_ZLIB_INCLUDE")
	assert.True(t, ok)
	assert.Equal(t, "/deps/zlib/include", value)
}

func TestFromProcessIsASnapshot(t *testing.T) {
	t.Setenv("STAGEDIR_SNAPSHOT", "before")

	e, err := FromProcess()
	require.NoError(t, err)
	t.Setenv("STAGEDIR_SNAPSHOT", "after")

	value, _ := e.Lookup("STAGEDIR_SNAPSHOT")
	assert.Equal(t, "before", value)
}

func TestFromDotenv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "build.env")
	require.NoError(t, os.WriteFile(envFile, []byte("OUT_DIR=/from/file\nCARGO_MANIFEST_LINKS=zlib\n"), 0644))

	t.Run("file_values_are_visible", func(t *testing.T) {
		e, err := FromDotenv(envFile)
		require.NoError(t, err)

		value, ok := e.Lookup("CARGO_MANIFEST_LINKS")
		assert.True(t, ok)
		assert.Equal(t, "zlib", value)
	})

	t.Run("process_wins_over_file", func(t *testing.T) {
		t.Setenv("OUT_DIR", "/from/process")

		e, err := FromDotenv(envFile)
		require.NoError(t, err)

		value, _ := e.Lookup("OUT_DIR")
		assert.Equal(t, "/from/process", value)
	})

	t.Run("missing_file_fails", func(t *testing.T) {
		_, err := FromDotenv(filepath.Join(dir, "absent.env"))
		assert.Error(t, err)
	})
}

func TestWith(t *testing.T) {
	base := FromMap(map[string]string{"A": "1", "B": "2"})
	layered := base.With(map[string]string{"B": "3"})

	value, _ := layered.Lookup("B")
	assert.Equal(t, "3", value)
	value, _ = layered.Lookup("A")
	assert.Equal(t, "1", value)

	value, _ = base.Lookup("B")
	assert.Equal(t, "2", value, "With must not modify the receiver")
}
