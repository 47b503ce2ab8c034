package core

import "fmt"

// HandlerError is a handler failure with an optional message for the user
type HandlerError struct {
	Err error

	// UserMessage is the ephemeral reply shown when ShowToUser is set
	UserMessage string
	ShowToUser  bool

	// Code is an HTTP-like status for logs and metrics
	Code int
}

func (e *HandlerError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMessage
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// Error codes
const (
	ErrorCodeBadRequest = 400
	ErrorCodeNotFound   = 404
	ErrorCodeInternal   = 500
)

// NewUserError fails the interaction with message shown as is
func NewUserError(message string, code int) *HandlerError {
	return &HandlerError{
		UserMessage: message,
		ShowToUser:  true,
		Code:        code,
	}
}

// NewNotFoundError reports a missing resource to the user
func NewNotFoundError(resource string) *HandlerError {
	return NewUserError(fmt.Sprintf("%s not found", resource), ErrorCodeNotFound)
}

// NewInternalError hides err behind a generic retry message
func NewInternalError(err error) *HandlerError {
	return &HandlerError{
		Err:         err,
		UserMessage: "An internal error occurred. Please try again later.",
		ShowToUser:  true,
		Code:        ErrorCodeInternal,
	}
}

// NewSilentError wraps a failure that has no user-facing recovery; it is logged
// and the interaction gets no further response
func NewSilentError(err error) *HandlerError {
	return &HandlerError{
		Err:  err,
		Code: ErrorCodeInternal,
	}
}
