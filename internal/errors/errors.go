// Package errors provides the error types shared across the sitemap
// library. Validation failures are signaled at construction time so the
// registry never stores an invalid entry.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ValidationError describes a rejected input value. It is returned by
// entry construction and configuration validation.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

// NewValidationError creates a validation error for the given field.
func NewValidationError(field, value, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return stderrors.As(err, &ve)
}
