package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Constructors, one per failure class ---

// ConfigError creates an AppError for configuration problems.
func ConfigError(message string) *AppError {
	return New(ErrCodeConfig, message)
}

// MissingField creates a ConfigError for a required setup answer left empty.
func MissingField(field string) *AppError {
	return ConfigError(fmt.Sprintf("missing required field: %s", field)).
		WithDetail("field", field)
}

// InvalidConfigFile creates a ConfigError for a persisted file that exists
// but cannot be parsed.
func InvalidConfigFile(path string, cause error) *AppError {
	return ConfigError(fmt.Sprintf("cannot parse config file %s", path)).
		WithDetail("path", path).
		WithCause(cause)
}

// BackendError creates an AppError for a failed object-store operation.
func BackendError(operation string, cause error) *AppError {
	return New(ErrCodeBackend, fmt.Sprintf("object store %s failed", operation)).
		WithDetail("operation", operation).
		WithCause(cause)
}

// NotFound creates an AppError for a local path that does not exist.
func NotFound(path string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s does not exist", path)).
		WithDetail("path", path)
}

// FilesystemError creates an AppError for a failed local write or removal.
func FilesystemError(operation, path string, cause error) *AppError {
	return New(ErrCodeFilesystem, fmt.Sprintf("%s %s failed", operation, path)).
		WithDetails(map[string]any{"operation": operation, "path": path}).
		WithCause(cause)
}

// Internal creates an AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "an unexpected error occurred").WithCause(cause)
}

// --- Inspection helpers ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first AppError in err's chain, or
// ErrCodeInternal for any other non-nil error.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// ExitCode maps an error to the process exit status. A nil error exits 0.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if code, ok := exitCodes[CodeOf(err)]; ok {
		return code
	}
	return ExitFailure
}
