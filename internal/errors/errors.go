// Package errors provides a lightweight structured error type (BodotError)
// used to classify command failures and map them to CLI exit codes.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a Bodot error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Build preconditions (missing files, output collisions)
	CategoryPrecondition ErrorCategory = "precondition"

	// External export tool errors
	CategoryEngine ErrorCategory = "engine"

	// Build and processing errors
	CategoryBuild      ErrorCategory = "build"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// BodotError is a structured error with category, severity and context
type BodotError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for BodotError
type ContextFields map[string]any

// Error implements the error interface
func (e *BodotError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *BodotError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *BodotError) WithContext(key string, value any) *BodotError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new BodotError
func New(category ErrorCategory, severity ErrorSeverity, message string) *BodotError {
	return &BodotError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new BodotError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *BodotError {
	return &BodotError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As returns the first BodotError in err's chain.
func As(err error) (*BodotError, bool) {
	var be *BodotError
	if stdErrors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if be, ok := As(err); ok {
		return be.Category == category
	}
	return false
}

// WrapError wraps an existing error with a new BodotError
func WrapError(err error, category ErrorCategory, message string) *BodotError {
	return Wrap(err, category, SeverityError, message)
}
