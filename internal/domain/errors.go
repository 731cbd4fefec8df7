package domain

import (
	"errors"
	"fmt"
)

// ErrNotImplemented is returned (wrapped) by drivers for operations they
// do not support
var ErrNotImplemented = errors.New("operation not implemented by driver")

// ConnectionError reports a failure to establish or tear down a device session
type ConnectionError struct {
	Op     string // "open" or "close"
	Driver string
	Host   string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s %s session to %s: %v", e.Op, e.Driver, e.Host, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// StateError reports a session-ownership violation. It indicates a usage
// error, never a transient condition.
type StateError struct {
	Msg string
}

func (e *StateError) Error() string {
	return e.Msg
}

// ClassifiedError is implemented by driver errors that carry their own
// class name, such as a device exception type
type ClassifiedError interface {
	error
	Class() string
}

// ErrorClass names the category of err for reporting to remote requesters
func ErrorClass(err error) string {
	var connErr *ConnectionError
	var stateErr *StateError
	var classified ClassifiedError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &stateErr):
		return "StateError"
	case errors.As(err, &connErr):
		return "ConnectionError"
	case errors.Is(err, ErrNotImplemented):
		return "NotImplemented"
	case errors.As(err, &classified) && classified.Class() != "":
		return classified.Class()
	default:
		return "DriverError"
	}
}
