// Package errors provides structured error handling for the application
// Following enterprise patterns for error management and observability
package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrorCode represents an error code
type ErrorCode string

// Error codes for the core subsystems. NotFound is normally signalled as a
// nil result, not an error; the code exists for the operations that require
// an existing record as a precondition.
const (
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodePreconditionFailed  ErrorCode = "PRECONDITION_FAILED"
	CodeConstraintViolation ErrorCode = "CONSTRAINT_VIOLATION"
	CodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	CodeParseError          ErrorCode = "PARSE_ERROR"
	CodeStorageUnavailable  ErrorCode = "STORAGE_UNAVAILABLE"
	CodeStorageError        ErrorCode = "STORAGE_ERROR"
	CodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error with structured information
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Details:    details,
		StackTrace: getStackTrace(),
	}
}

// Predefined error constructors for common scenarios

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	message := "Resource not found"
	if resource != "" {
		message = fmt.Sprintf("%s not found", resource)
	}
	return NewAppError(CodeNotFound, message, "")
}

// NewPreconditionError creates a precondition failure error, used when an
// operation requires a record that does not exist or is in the wrong state
func NewPreconditionError(details string) *AppError {
	return NewAppError(CodePreconditionFailed, "Operation precondition failed", details)
}

// NewConstraintViolationError creates a constraint violation error
func NewConstraintViolationError(details string) *AppError {
	return NewAppError(CodeConstraintViolation, "Constraint violation", details)
}

// NewValidationError creates a validation error
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

// NewParseError creates a parse error for malformed serialized input
func NewParseError(details string, cause error) *AppError {
	return NewAppError(CodeParseError, "Unable to parse input", details).WithCause(cause)
}

// NewStorageUnavailableError creates a storage unavailable error
func NewStorageUnavailableError(cause error) *AppError {
	return NewAppError(
		CodeStorageUnavailable,
		"Storage unavailable",
		"The embedded store could not be opened",
	).WithCause(cause)
}

// NewStorageError creates a storage operation error
func NewStorageError(operation string, cause error) *AppError {
	return NewAppError(
		CodeStorageError,
		"Storage operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:       appErr.Code,
			Message:    message,
			Details:    appErr.Message,
			Metadata:   appErr.Metadata,
			Cause:      appErr,
			StackTrace: appErr.StackTrace,
		}
	}

	return NewAppError(CodeInternal, message, err.Error()).WithCause(err)
}

// IsCode reports whether err carries the given error code
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsNotFound reports whether err is a not found error
func IsNotFound(err error) bool {
	return IsCode(err, CodeNotFound)
}

// IsConstraintViolation reports whether err is a constraint violation
func IsConstraintViolation(err error) bool {
	return IsCode(err, CodeConstraintViolation)
}

// getStackTrace captures the current stack trace
func getStackTrace() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	lines := strings.Split(string(buf[:n]), "\n")

	// Skip the first few lines which are from this package
	if len(lines) > 6 {
		lines = lines[6:]
	}

	return strings.Join(lines, "\n")
}
