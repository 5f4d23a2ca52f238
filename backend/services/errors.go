package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidXPAmount     = errors.New("xp amount must be positive")
	ErrUnknownActivity     = errors.New("unknown activity kind")
	ErrTaskNotFound        = errors.New("task not found")
	ErrPostNotFound        = errors.New("post not found")
	ErrUnknownPersona      = errors.New("unknown assistant")
	ErrUnknownAction       = errors.New("unknown assistant action")
	ErrUnknownTaskVariant  = errors.New("unknown task variant")
	ErrInstitutionRequired = errors.New("institution access required")
)

// ValidationError is a refused input. Field names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AsValidation unwraps a *ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// IsNotFound reports whether err means a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrPostNotFound) ||
		errors.Is(err, ErrUnknownPersona) ||
		errors.Is(err, ErrUnknownAction)
}
