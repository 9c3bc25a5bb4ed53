// Package errors augments the standard errors
// provided by fmt (https://golang.org/src/fmt/errors.go)
// with sentinel errors that may carry a cause.
//
// Wrapping a sentinel never alters it: Wrap returns a new error
// which still matches the sentinel with Is().
package errors

import (
	stderr "errors"
)

var _ error = New("")

// New Error
func New(msg string) *Error {
	return &Error{msg: msg}
}

// Error is a sentinel error, optionally wrapping a nested cause.
type Error struct {
	msg   string
	err   error
	class *Error
}

// Error message, followed by the cause when there is one
func (e *Error) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

// Unwrap nested error
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Wrap a nested error into a copy of this sentinel
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		class: e.sentinel(),
	}
}

func (e *Error) sentinel() *Error {
	if e.class != nil {
		return e.class
	}
	return e
}

// Is of some error type?
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e == t || e.sentinel() == t
}

// Is reports whether any error in err's chain matches target
// (a shortcut to standard lib errors.Is)
func Is(err, target error) bool {
	return stderr.Is(err, target)
}
