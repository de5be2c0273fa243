package tree

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a conflict in the declared shape of a path
// tree: duplicate routes, a second binding at one node, declarations
// beneath a mount, or mutation of a frozen tree. Configuration errors
// are raised by panicking at composition time; they are programming
// errors and are never produced while serving a request.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "tree: " + e.Reason
}

func configPanic(format string, args ...any) {
	panic(&ConfigurationError{Reason: fmt.Sprintf(format, args...)})
}

// ClientError is an error a validator or handler signals to produce a
// 4xx response. The dispatcher converts it into a structured result
// instead of propagating it; it never crosses the dispatch boundary.
type ClientError struct {
	// Code is the HTTP status code, conventionally in the 4xx range.
	Code int

	// Message is the response body text.
	Message string
}

// NewClientError returns a ClientError with the given status code and
// message.
func NewClientError(code int, message string) *ClientError {
	return &ClientError{Code: code, Message: message}
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("client error %d: %s", e.Code, e.Message)
}

// ErrSkipBinding may be returned by a binding validator to signal that
// the binding does not apply to the segment. The dispatcher treats the
// request as not found, exactly as if no binding child existed.
var ErrSkipBinding = errors.New("tree: skip binding")

// ErrNotRouted is returned by reverse lookups for a handler that was
// never attached to the tree.
var ErrNotRouted = errors.New("tree: handler is not routed")

// FormattingError reports a binding value that could not be converted
// back into a URL path segment during reverse lookup: the binding has
// no formatter and the value has no canonical string form, or the
// produced segment is not usable in a path.
type FormattingError struct {
	// Binding is the name of the binding being formatted.
	Binding string

	// Value is the value that could not be formatted.
	Value any
}

// MissingValueError reports a reverse lookup that did not supply a
// value for one of the bindings on the handler's path.
type MissingValueError struct {
	// Binding is the name of the binding without a value.
	Binding string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("tree: no value supplied for binding %q", e.Binding)
}

func (e *FormattingError) Error() string {
	return fmt.Sprintf("tree: cannot format value of type %T for binding %q", e.Value, e.Binding)
}
