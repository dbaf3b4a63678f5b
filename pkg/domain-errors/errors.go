// Package domainerrors provides coded errors shared by every credence package.
//
// Callers construct errors with New or Wrap and branch on the code with HasCode.
// Codes describe what kind of contract was broken, not where:
//   - CodeInvariantViolation: a structural modeling error detected while composing programs
//   - CodeUnsupported: a distribution lacks a parameterization or generator
//   - CodeInvalidInput: malformed configuration or observations
//   - CodeInvalidState: a terminal operation invoked on a program it cannot serve
//   - CodeTimeout: inference interrupted by context cancellation or deadline
//   - CodeInternal: a collaborator failed unexpectedly
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	CodeInvariantViolation Code = "invariant_violation"
	CodeUnsupported        Code = "unsupported"
	CodeInvalidInput       Code = "invalid_input"
	CodeInvalidState       Code = "invalid_state"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error carrying the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// New creates a coded error.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
// Wrapping a nil error returns nil.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode reports whether any error in err's chain is a domain error with code.
func HasCode(err error, code Code) bool {
	var de *Error
	for err != nil {
		if errors.As(err, &de) {
			if de.Code == code {
				return true
			}
			err = de.Err
			continue
		}
		return false
	}
	return false
}

// Is is errors.Is re-exported so call sites need a single import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
