package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed client input.
	ErrValidation = errors.New("validation error")
	// ErrDataIntegrity marks a stored record that violates the event invariants.
	ErrDataIntegrity = errors.New("data integrity error")
	// ErrUpstreamUnavailable marks a store that could not be reached. Callers may retry.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// FieldError describes one invalid field. It unwraps to the kind it was created with.
type FieldError struct {
	Kind   error
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: field '%s' %s", e.Kind, e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

func invalidField(field, reason string) error {
	return &FieldError{Kind: ErrValidation, Field: field, Reason: reason}
}

func corruptField(field, reason string) error {
	return &FieldError{Kind: ErrDataIntegrity, Field: field, Reason: reason}
}
