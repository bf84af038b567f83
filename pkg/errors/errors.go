// Package errors augments the standard errors
// provided by fmt (https://golang.org/src/fmt/errors.go)
// with a Wrap() method to wrap errors without resorting
// to fmt.Errorf("%w", err).
package errors

import (
	stderr "errors"
	"fmt"
)

var _ error = New("")

// New Error
func New(msg string) *Error {
	return &Error{msg: msg}
}

// Error augments the standard error interface with a Wrap method.
//
// An Error derived from a sentinel with Wrap or Withf keeps the identity of that
// sentinel: errors.Is(derived, sentinel) holds, while the derived error carries
// its own message and cause.
type Error struct {
	msg  string
	err  error
	root *Error
}

// Error message
func (e *Error) Error() string {
	return e.msg
}

// Unwrap nested error
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Wrap a nested error.
//
// The receiver is left untouched, so sentinels may be wrapped concurrently.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, root: e.sentinel()}
}

// Withf returns an error with a formatted message, which still matches the receiver's sentinel.
func (e *Error) Withf(format string, args ...interface{}) *Error {
	return &Error{msg: fmt.Sprintf(format, args...), err: e.err, root: e.sentinel()}
}

func (e *Error) sentinel() *Error {
	if e.root != nil {
		return e.root
	}
	return e
}

// Is of some error type?
func (e *Error) Is(target error) bool {
	if e == target {
		return true
	}
	t, ok := target.(*Error)
	return ok && e.root != nil && e.root == t
}

// As finds the first error in err's chain that matches target, and if so, sets target to that error value and returns true.
// (a shortcut to standard lib errors.As)
func As(err error, target interface{}) bool {
	return stderr.As(err, target)
}

// Is reports whether any error in err's chain matches target
// (a shortcut to standard lib errors.As)
func Is(err, target error) bool {
	return stderr.Is(err, target)
}
