package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Schema errors.
var (
	// ErrUnknownFlavour indicates no schema is registered for a flavour.
	ErrUnknownFlavour = errors.New("no schema for flavour")
	// ErrParentNotAllowed indicates a flavour may not be placed under a parent.
	ErrParentNotAllowed = errors.New("parent not allowed")
)

// ValidationError represents a single prop validation failure.
type ValidationError struct {
	// Flavour is the flavour name of the block being validated.
	Flavour string

	// Prop is the prop key; empty for block-level failures.
	Prop string

	// Message describes what's wrong.
	Message string

	// Value is the invalid value (may be nil).
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Prop == "" {
		return fmt.Sprintf("%s: %s", e.Flavour, e.Message)
	}
	return fmt.Sprintf("%s.%s: %s", e.Flavour, e.Prop, e.Message)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e.Errors), strings.Join(msgs, "\n  - "))
}

// Add adds a validation error.
func (e *ValidationErrors) Add(flavour, prop, message string, value any) {
	e.Errors = append(e.Errors, &ValidationError{
		Flavour: flavour,
		Prop:    prop,
		Message: message,
		Value:   value,
	})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// AsError returns nil if no errors, otherwise returns self.
func (e *ValidationErrors) AsError() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// ForProp returns all errors for a specific prop.
func (e *ValidationErrors) ForProp(prop string) []*ValidationError {
	var result []*ValidationError
	for _, err := range e.Errors {
		if err.Prop == prop {
			result = append(result, err)
		}
	}
	return result
}
