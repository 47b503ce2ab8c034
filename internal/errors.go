package internal

import "errors"

// Sentinels for constructor validation failures, matched with errors.Is
var (
	ErrMissingParam = errors.New("missing parameter")
	ErrInvalidParam = errors.New("invalid parameter")
)

// ParamError names the constructor parameter that failed validation
type ParamError struct {
	Kind   error
	Detail string
}

func (e *ParamError) Error() string {
	return e.Kind.Error() + ": " + e.Detail
}

func (e *ParamError) Unwrap() error {
	return e.Kind
}

// NewMissingParamError is returned by constructors when a required dependency is nil or empty
func NewMissingParamError(param string) error {
	return &ParamError{Kind: ErrMissingParam, Detail: param}
}

func NewInvalidParamError(detail string) error {
	return &ParamError{Kind: ErrInvalidParam, Detail: detail}
}
