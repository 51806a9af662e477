package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates an identifier that does not resolve to a
	// stored entity. Operations abort without partial effect.
	ErrNotFound = errors.New("not found")

	// ErrIntegrity indicates a write that would break a uniqueness or
	// null-preservation invariant. It signals a defect in the calling
	// code, not a retryable condition.
	ErrIntegrity = errors.New("integrity violation")
)

// ValidationError reports malformed input (identifier shape, unknown
// status value, bad analysis record). It is raised before any store
// access is attempted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
