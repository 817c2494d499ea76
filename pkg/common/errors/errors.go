package errors

import (
	"errors"
	"fmt"
	"time"
)

// Common error types used across the gocsp library

var (
	// ErrClosed indicates that an operation was attempted on a closed resource
	ErrClosed = errors.New("resource is closed")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that a pending operation was canceled before it completed
	ErrCanceled = errors.New("operation canceled")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// TimeoutCode is the HTTP-408 style code carried by TimeoutError.
const TimeoutCode = 408

// ValidationError describes an invalid argument or configuration value.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
	Hint   string
}

// NewValidationError creates a ValidationError without a hint.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint sets a remediation hint and returns the same error for chaining.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

// Unwrap returns ErrInvalidConfiguration.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// OperationError describes a failed runtime operation.
type OperationError struct {
	Module    string
	Operation string
	Cause     error
	Context   string
}

// NewOperationError creates an OperationError wrapping cause.
func NewOperationError(module, operation string, cause error) *OperationError {
	return &OperationError{
		Module:    module,
		Operation: operation,
		Cause:     cause,
	}
}

// WithContext sets additional context and returns the same error for chaining.
func (e *OperationError) WithContext(context string) *OperationError {
	e.Context = context
	return e
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s.%s failed: %v", e.Module, e.Operation, e.Cause)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *OperationError) Unwrap() error {
	return e.Cause
}

// TimeoutError is returned when a put or take does not complete within its
// configured timeout. The queued request has already been withdrawn when
// this error is returned.
type TimeoutError struct {
	Module    string
	Operation string
	Timeout   time.Duration
	Code      int
}

// NewTimeoutError creates a TimeoutError with Code set to TimeoutCode.
func NewTimeoutError(module, operation string, timeout time.Duration) *TimeoutError {
	return &TimeoutError{
		Module:    module,
		Operation: operation,
		Timeout:   timeout,
		Code:      TimeoutCode,
	}
}

func (e *TimeoutError) Error() string {
	switch e.Operation {
	case "put":
		return fmt.Sprintf("'put' timed out after %v. No data was added to the channel.", e.Timeout)
	case "take":
		return fmt.Sprintf("'take' timed out after %v. No data was taken off the channel.", e.Timeout)
	default:
		return fmt.Sprintf("%s.%s timed out after %v", e.Module, e.Operation, e.Timeout)
	}
}

// Unwrap returns ErrTimeout.
func (e *TimeoutError) Unwrap() error {
	return ErrTimeout
}

// IsValidationError reports whether err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsTimeout reports whether err is or wraps a TimeoutError or ErrTimeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
