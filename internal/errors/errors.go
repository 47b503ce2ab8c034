// Package errors carries a small set of codes through wrapped errors so
// handlers can pick a user-facing reply without string matching.
package errors

import (
	"errors"
	"fmt"
	"maps"
)

// Code categorizes an application error
type Code string

const (
	CodeUnknown Code = "unknown"

	// CodeInvalidArgument marks malformed caller input, e.g. a bad tag
	CodeInvalidArgument Code = "invalid_argument"
	CodeNotFound        Code = "not_found"
	CodeInternal        Code = "internal"

	// CodeUnavailable marks an upstream that failed or could not be reached
	CodeUnavailable Code = "unavailable"
)

// Error is a coded error. Meta holds context for logs, never for users.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Meta    map[string]any
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMeta sets key on e and returns e
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = map[string]any{}
	}
	e.Meta[key] = value
	return e
}

func newf(code Code, format string, args []any) *Error {
	if len(args) > 0 {
		format = fmt.Sprintf(format, args...)
	}
	return &Error{Code: code, Message: format}
}

func NotFound(message string) *Error { return newf(CodeNotFound, message, nil) }

func NotFoundf(format string, args ...any) *Error { return newf(CodeNotFound, format, args) }

func InvalidArgument(message string) *Error { return newf(CodeInvalidArgument, message, nil) }

func InvalidArgumentf(format string, args ...any) *Error {
	return newf(CodeInvalidArgument, format, args)
}

func Unavailablef(format string, args ...any) *Error { return newf(CodeUnavailable, format, args) }

// Wrap adds message to err. The code and a copy of the metadata of the
// nearest *Error in the chain are kept; other errors become CodeUnknown.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	wrapped := &Error{Code: CodeUnknown, Message: message, Cause: err}
	var inner *Error
	if errors.As(err, &inner) {
		wrapped.Code = inner.Code
		wrapped.Meta = maps.Clone(inner.Meta)
	}
	return wrapped
}

// WrapWithCode is Wrap with the code replaced
func WrapWithCode(err error, code Code, message string) *Error {
	wrapped := Wrap(err, message)
	if wrapped != nil {
		wrapped.Code = code
	}
	return wrapped
}

// GetCode returns the code of the nearest *Error in err's chain
func GetCode(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

func GetMeta(err error) map[string]any {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Meta
	}
	return nil
}

func IsNotFound(err error) bool        { return GetCode(err) == CodeNotFound }
func IsInvalidArgument(err error) bool { return GetCode(err) == CodeInvalidArgument }
func IsUnavailable(err error) bool     { return GetCode(err) == CodeUnavailable }
