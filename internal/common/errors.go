// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"strings"
)

// Common application errors.
var (
	// ErrNotFound is returned when a lookup by id yields no row.
	ErrNotFound = errors.New("not found")
	// ErrInvalidImage is returned when an imported database image is missing
	// required tables or cannot be opened.
	ErrInvalidImage = errors.New("invalid database image")
	// ErrStoreClosed is returned when an operation runs against a closed store.
	ErrStoreClosed = errors.New("store is closed")
	// ErrInvalidConfig is returned for unusable configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ValidationError aggregates every field violation found in an input, so the
// caller can show all of them at once instead of fixing one at a time.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, ", ")
}

// NewValidationError builds a ValidationError from the collected messages.
func NewValidationError(problems []string) error {
	return &ValidationError{Problems: problems}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
