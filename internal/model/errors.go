package model

import (
	"errors"
	"fmt"
)

// Outcomes returned by the content and site managers. The HTTP layer maps
// them to status codes with errors.Is.
var (
	ErrForbidden  = errors.New("admin role required")
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrUpstream   = errors.New("store unavailable")
)

// Upstream wraps a persistent store failure.
func Upstream(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
}

// Invalid builds a validation error with a reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
