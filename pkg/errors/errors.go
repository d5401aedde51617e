package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies one kind of failure in the staging taxonomy
type ErrorCode string

// Error codes. The set is closed: every failure surfaced by stagedir
// carries exactly one of these.
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// A required environment variable is absent or not valid text
	ErrLookupMissing ErrorCode = "LOOKUP_MISSING"

	// Listing, metadata, mkdir, copy, remove or symlink failed
	ErrIO ErrorCode = "IO_FAILURE"

	// A walked path could not be made relative to its walk root
	ErrPath ErrorCode = "PATH_ERROR"

	// The walker descended past its configured depth bound
	ErrWalkDepth ErrorCode = "WALK_DEPTH"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"
)

// StageError is a structured error with code and details
type StageError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *StageError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *StageError) Unwrap() error {
	return e.Wrapped
}

// Is matches any StageError carrying the same code
func (e *StageError) Is(target error) bool {
	var targetErr *StageError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new StageError with the given code and message
func New(code ErrorCode, message string) *StageError {
	return &StageError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new StageError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *StageError {
	return &StageError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a StageError
func Wrap(err error, code ErrorCode, message string) *StageError {
	if err == nil {
		return nil
	}
	return &StageError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *StageError {
	if err == nil {
		return nil
	}
	return &StageError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *StageError) WithDetail(key string, value interface{}) *StageError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a StageError
func GetErrorCode(err error) ErrorCode {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a StageError
func GetErrorDetails(err error) map[string]interface{} {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Details
	}
	return nil
}
