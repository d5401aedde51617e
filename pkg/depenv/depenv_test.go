package depenv

import (
	"testing"

	"github.com/arthur-debert/stagedir/pkg/environment"
	"github.com/arthur-debert/stagedir/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarName(t *testing.T) {
	tests := []struct {
		dep  string
		key  string
		want string
	}{
		{"zlib", "include", "DEP_ZLIB_INCLUDE"},
		{"OpenSSL", "Root", "DEP_OPENSSL_ROOT"},
		{"lib-x", "dir", "DEP_LIB-X_DIR"},
		{"ZSTD", "INCLUDE", "DEP_ZSTD_INCLUDE"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, VarName(tt.dep, tt.key))
		})
	}
}

func TestValue(t *testing.T) {
	env := environment.FromMap(map[string]string{
		"DEP_ZLIB_INCLUDE": "/deps/zlib/include",
		"DEP_BAD_INCLUDE":  "\xff\xfe",
	})

	t.Run("found", func(t *testing.T) {
		value, err := Value(env, "zlib", "include")
		require.NoError(t, err)
		assert.Equal(t, "/deps/zlib/include", value)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Value(env, "png", "include")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrLookupMissing))
		assert.Equal(t, "DEP_PNG_INCLUDE", errors.GetErrorDetails(err)["variable"])
	})

	t.Run("not_unicode", func(t *testing.T) {
		_, err := Value(env, "bad", "include")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrLookupMissing))
	})
}
