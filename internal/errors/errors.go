// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrMarketClosed      = errors.New("market is closed")
	ErrPositionNotFound  = errors.New("position not found")
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrInputValidation   = errors.New("input validation failed")
)

// AdviceError represents an error from the advice provider.
type AdviceError struct {
	Kind       string
	Instrument string
	Err        error
}

func (e *AdviceError) Error() string {
	if e.Instrument != "" {
		return fmt.Sprintf("advice error [%s] %s: %v", e.Kind, e.Instrument, e.Err)
	}
	return fmt.Sprintf("advice error [%s]: %v", e.Kind, e.Err)
}

func (e *AdviceError) Unwrap() error {
	return e.Err
}

// NewAdviceError creates a new AdviceError.
func NewAdviceError(kind, instrument string, err error) *AdviceError {
	return &AdviceError{
		Kind:       kind,
		Instrument: instrument,
		Err:        err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
