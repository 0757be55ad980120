package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Source validation errors
	ErrSourceMissing   ErrorCode = "SOURCE_MISSING"
	ErrNotAFile        ErrorCode = "NOT_A_FILE"
	ErrDuplicateSource ErrorCode = "DUPLICATE_SOURCE"
	ErrCrossDevice     ErrorCode = "CROSS_DEVICE"
	ErrInvalidPattern  ErrorCode = "INVALID_PATTERN"

	// Filesystem errors
	ErrIO               ErrorCode = "IO"
	ErrLinkCountChanged ErrorCode = "LINK_COUNT_CHANGED"

	// Completeness gate
	ErrIncompleteDiscovery ErrorCode = "INCOMPLETE_DISCOVERY"

	// Ambient errors
	ErrConfigLoad ErrorCode = "CONFIG_LOAD"
	ErrJournal    ErrorCode = "JOURNAL"
)

// ErrorCategory groups codes the way callers report them
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryIO         ErrorCategory = "io"
	CategoryGate       ErrorCategory = "gate"
	CategoryAmbient    ErrorCategory = "ambient"
	CategoryUnknown    ErrorCategory = "unknown"
)

var categories = map[ErrorCode]ErrorCategory{
	ErrInvalidInput:        CategoryValidation,
	ErrSourceMissing:       CategoryValidation,
	ErrNotAFile:            CategoryValidation,
	ErrDuplicateSource:     CategoryValidation,
	ErrCrossDevice:         CategoryValidation,
	ErrInvalidPattern:      CategoryValidation,
	ErrIO:                  CategoryIO,
	ErrLinkCountChanged:    CategoryIO,
	ErrIncompleteDiscovery: CategoryGate,
	ErrConfigLoad:          CategoryAmbient,
	ErrJournal:             CategoryAmbient,
}

// Category returns the category a code belongs to
func Category(code ErrorCode) ErrorCategory {
	if c, ok := categories[code]; ok {
		return c
	}
	return CategoryUnknown
}

// RelinkError represents a structured error with code and details
type RelinkError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *RelinkError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *RelinkError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *RelinkError) Is(target error) bool {
	var targetErr *RelinkError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new RelinkError with the given code and message
func New(code ErrorCode, message string) *RelinkError {
	return &RelinkError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new RelinkError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RelinkError {
	return &RelinkError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a RelinkError.
// Callers must not return the result as an error when err may be nil.
func Wrap(err error, code ErrorCode, message string) *RelinkError {
	if err == nil {
		return nil
	}
	return &RelinkError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *RelinkError {
	if err == nil {
		return nil
	}
	return &RelinkError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *RelinkError) WithDetail(key string, value interface{}) *RelinkError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *RelinkError) WithDetails(details map[string]interface{}) *RelinkError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var relinkErr *RelinkError
	if errors.As(err, &relinkErr) {
		return relinkErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a RelinkError
func GetErrorCode(err error) ErrorCode {
	var relinkErr *RelinkError
	if errors.As(err, &relinkErr) {
		return relinkErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a RelinkError
func GetErrorDetails(err error) map[string]interface{} {
	var relinkErr *RelinkError
	if errors.As(err, &relinkErr) {
		return relinkErr.Details
	}
	return nil
}

// IO wraps a filesystem failure for the given operation and path
func IO(err error, op, path string) *RelinkError {
	if err == nil {
		return nil
	}
	return Wrapf(err, ErrIO, "%s %s", op, path).WithDetail("path", path).WithDetail("op", op)
}
