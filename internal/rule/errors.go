package rule

import (
	"errors"
	"fmt"
)

// Errors reported by rule validation and decoding.
var (
	// ErrNoCommand indicates a rule without a command.
	ErrNoCommand = errors.New("rule has no command")

	// ErrNoKeys indicates a rule with an empty chord sequence.
	ErrNoKeys = errors.New("rule has no key sequence")

	// ErrNoSelector indicates a rule without an activation selector.
	ErrNoSelector = errors.New("rule has no selector")

	// ErrMalformed indicates a value that does not have the shape of a rule.
	ErrMalformed = errors.New("malformed rule")
)

// FieldError describes a rule field with the wrong type or shape.
type FieldError struct {
	// Field is the offending field name.
	Field string
	// Expected is the expected type name.
	Expected string
	// Actual is the actual type name.
	Actual string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("rule field %q: expected %s, got %s", e.Field, e.Expected, e.Actual)
}

// Is reports FieldError as a kind of ErrMalformed.
func (e *FieldError) Is(target error) bool {
	return target == ErrMalformed
}
