package hookroute

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrInvalidArgument is returned when a registration is rejected.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTooManyConditions is returned when a registration supplies more than
	// one attribute condition.
	ErrTooManyConditions = fmt.Errorf("%w: too many conditions", ErrInvalidArgument)

	// ErrCallbackPanic is returned by Recover when a callback panics.
	ErrCallbackPanic = errors.New("callback panicked")
)

// TooManyConditionsError reports a registration with more than one
// attribute condition. The route tables are left unchanged.
type TooManyConditionsError struct {
	EventType string
	Count     int
}

// Error implements the error interface.
func (e *TooManyConditionsError) Error() string {
	return fmt.Sprintf(
		"route %q: dispatching on object attributes supports one condition; %d specified",
		e.EventType, e.Count)
}

// Unwrap returns ErrTooManyConditions.
func (e *TooManyConditionsError) Unwrap() error {
	return ErrTooManyConditions
}

// ArgumentError reports an invalid registration argument.
type ArgumentError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Unwrap returns ErrInvalidArgument.
func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// CallbackPanicError wraps a recovered callback panic.
type CallbackPanicError struct {
	EventType string
	EventID   string
	Value     any
}

// Error implements the error interface.
func (e *CallbackPanicError) Error() string {
	return fmt.Sprintf("event %s (%s): callback panic: %v", e.EventID, e.EventType, e.Value)
}

// Unwrap returns ErrCallbackPanic, or the panic value when it is an error.
func (e *CallbackPanicError) Unwrap() []error {
	if err, ok := e.Value.(error); ok {
		return []error{ErrCallbackPanic, err}
	}
	return []error{ErrCallbackPanic}
}
