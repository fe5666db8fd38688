package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNilHandler         = errors.New("handler is nil")
	ErrUnnamedHandler     = errors.New("handler has no name")
	ErrDuplicateHandler   = errors.New("handler appears more than once in chain")
	ErrUnknownHandlerKind = errors.New("unknown handler kind")
	ErrInvalidHandlerSpec = errors.New("invalid handler specification")
)

// ConfigurationError means a chain could not be assembled. Nothing is
// partially built when one is returned; fix the input and build again.
type ConfigurationError struct {
	Err      error
	Handler  string
	Reason   string
	Position int
}

func (e *ConfigurationError) Error() string {
	if e.Handler != "" {
		return fmt.Sprintf("chain configuration invalid at position %d (%s): %s: %v", e.Position, e.Handler, e.Reason, e.Err)
	}
	return fmt.Sprintf("chain configuration invalid at position %d: %s: %v", e.Position, e.Reason, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

type RequestValidationError struct {
	Value  interface{}
	Field  string
	Reason string
}

func (e *RequestValidationError) Error() string {
	return fmt.Sprintf("invalid request %s=%v: %s", e.Field, e.Value, e.Reason)
}

type ConfigValidationError struct {
	Value  interface{}
	Field  string
	Reason string
}

func (e *ConfigValidationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s=%v: %s", e.Field, e.Value, e.Reason)
}

func NewConfigurationError(position int, handler, reason string, err error) *ConfigurationError {
	return &ConfigurationError{
		Position: position,
		Handler:  handler,
		Reason:   reason,
		Err:      err,
	}
}

func NewRequestValidationError(field string, value interface{}, reason string) *RequestValidationError {
	return &RequestValidationError{
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

func NewConfigValidationError(field string, value interface{}, reason string) *ConfigValidationError {
	return &ConfigValidationError{
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}
