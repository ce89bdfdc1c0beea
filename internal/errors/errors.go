// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrZeroRiskDistance = errors.New("risk distance is zero")
	ErrInvalidTarget    = errors.New("target price must be positive")
	ErrTradeOpen        = errors.New("trade has no defined outcome yet")
	ErrAlertTerminal    = errors.New("alert already triggered")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrFeedUnavailable  = errors.New("feed unavailable")
)

// ValidationError represents a validation failure on a single field.
// Callers receive this instead of a silently wrong derived number.
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

// StoreError represents a durable-store read/write failure. The operation
// that hit it leaves prior state unchanged.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("store error [%s] %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("store error [%s]: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op, key string, err error) *StoreError {
	return &StoreError{
		Op:  op,
		Key: key,
		Err: err,
	}
}

// NotComputableError signals that a derived value cannot be produced from
// the given inputs, e.g. position size with a zero stop distance.
type NotComputableError struct {
	What   string
	Reason error
}

func (e *NotComputableError) Error() string {
	return fmt.Sprintf("%s not computable: %v", e.What, e.Reason)
}

func (e *NotComputableError) Unwrap() error {
	return e.Reason
}

// NewNotComputable creates a new NotComputableError.
func NewNotComputable(what string, reason error) *NotComputableError {
	return &NotComputableError{
		What:   what,
		Reason: reason,
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
