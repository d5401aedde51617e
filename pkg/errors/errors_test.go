// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and code lookup

package errors_test

import (
	stderrors "errors"
	"io/fs"
	"testing"

	"github.com/arthur-debert/stagedir/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "lookup_missing",
			code:    errors.ErrLookupMissing,
			message: "OUT_DIR is not set",
			wantStr: "[LOOKUP_MISSING] OUT_DIR is not set",
		},
		{
			name:    "path_error",
			code:    errors.ErrPath,
			message: "cannot relativize",
			wantStr: "[PATH_ERROR] cannot relativize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrWalkDepth, "depth %d exceeds %d", 9, 8)
	assert.Equal(t, "depth 9 exceeds 8", err.Message)
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrIO, "copy failed")

		assert.Equal(t, errors.ErrIO, err.Code)
		assert.Same(t, baseErr, err.Wrapped)
		assert.Equal(t, "[IO_FAILURE] copy failed: base error", err.Error())
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrIO, "copy failed"))
		assert.Nil(t, errors.Wrapf(nil, errors.ErrIO, "copy %s", "x"))
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrIO, "remove failed").
		WithDetail("source", "/src/a").
		WithDetail("dest", "/dest/a")

	details := errors.GetErrorDetails(err)
	require.NotNil(t, details)
	assert.Equal(t, "/src/a", details["source"])
	assert.Equal(t, "/dest/a", details["dest"])
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{"matching_code", errors.New(errors.ErrLookupMissing, "x"), errors.ErrLookupMissing, true},
		{"different_code", errors.New(errors.ErrIO, "x"), errors.ErrLookupMissing, false},
		{"standard_error", stderrors.New("plain"), errors.ErrIO, false},
		{"nil_error", nil, errors.ErrIO, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errors.IsErrorCode(tt.err, tt.code))
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, errors.ErrPath, errors.GetErrorCode(errors.New(errors.ErrPath, "x")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(nil))
}

func TestErrorChaining(t *testing.T) {
	ioErr := errors.Wrap(fs.ErrPermission, errors.ErrIO, "mkdir failed")
	top := errors.Wrap(ioErr, errors.ErrInternal, "stage failed")

	assert.True(t, errors.IsErrorCode(top, errors.ErrInternal))
	assert.True(t, stderrors.Is(top, fs.ErrPermission))
	assert.True(t, stderrors.Is(top, errors.New(errors.ErrIO, "")))
}
