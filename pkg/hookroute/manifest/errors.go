package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownHandler is matched by UnknownHandlerError.
var ErrUnknownHandler = errors.New("unknown handler")

// RouteError reports an invalid manifest route. Index is -1 for problems
// with the routes list itself.
type RouteError struct {
	Index   int
	Event   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *RouteError) Error() string {
	prefix := "manifest routes"
	if e.Index >= 0 {
		prefix = fmt.Sprintf("manifest route %d", e.Index)
		if e.Event != "" {
			prefix += fmt.Sprintf(" (%s)", e.Event)
		}
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error.
func (e *RouteError) Unwrap() error {
	return e.Err
}

// UnknownHandlerError reports a route naming a handler that is not in the
// registry. Known lists the registered names, sorted.
type UnknownHandlerError struct {
	Index   int
	Handler string
	Known   []string
}

// Error implements the error interface.
func (e *UnknownHandlerError) Error() string {
	msg := fmt.Sprintf("manifest route %d: %v %q", e.Index, ErrUnknownHandler, e.Handler)
	if len(e.Known) == 0 {
		return msg + " (no handlers registered)"
	}
	return msg + " (known: " + strings.Join(e.Known, ", ") + ")"
}

// Unwrap returns ErrUnknownHandler.
func (e *UnknownHandlerError) Unwrap() error {
	return ErrUnknownHandler
}
