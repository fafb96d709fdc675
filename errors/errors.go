// Package errors defines the structured error type used throughout flatfs.
//
// The public volume API never returns a Go error to its callers -- per the
// on-disk contract, every operation returns a plain integer code. DriverError
// exists for everything underneath that boundary: it lets internal helpers
// describe precisely what went wrong, and lets the volume package log a
// useful diagnostic before collapsing the error down to the numeric code a
// caller actually sees.
package errors

import "fmt"

// DriverError is the interface satisfied by every error this package
// produces.
type DriverError interface {
	error
	Code() Code
	WithMessage(message string) DriverError
	WrapError(err error) DriverError
	Unwrap() error
}

type customDriverError struct {
	code          Code
	message       string
	originalError error
}

func New(code Code) DriverError {
	return customDriverError{code: code, message: code.defaultMessage()}
}

func NewWithMessage(code Code, message string) DriverError {
	return customDriverError{
		code:    code,
		message: fmt.Sprintf("%s: %s", code.defaultMessage(), message),
	}
}

func (e customDriverError) Code() Code {
	return e.code
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customDriverError) Error() string {
	return e.message
}

func (e customDriverError) WithMessage(message string) DriverError {
	return customDriverError{
		code:    e.code,
		message: fmt.Sprintf("%s: %s", e.message, message),
	}
}

func (e customDriverError) WrapError(err error) DriverError {
	return customDriverError{
		code:          e.code,
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: err,
	}
}

func (e customDriverError) Unwrap() error {
	return e.originalError
}
