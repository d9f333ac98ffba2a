package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation    = "validation_error"
	CodeAuth          = "auth_error"
	CodeConflict      = "conflict_error"
	CodeConfiguration = "configuration_error"
	CodeAdapter       = "adapter_error"
	CodeDatabase      = "database_error"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(format string, args ...any) *Error {
	return New(http.StatusBadRequest, CodeValidation, fmt.Errorf(format, args...))
}

func Auth(format string, args ...any) *Error {
	return New(http.StatusUnauthorized, CodeAuth, fmt.Errorf(format, args...))
}

func Conflict(format string, args ...any) *Error {
	return New(http.StatusConflict, CodeConflict, fmt.Errorf(format, args...))
}

func Configuration(format string, args ...any) *Error {
	return New(http.StatusInternalServerError, CodeConfiguration, fmt.Errorf(format, args...))
}

func Adapter(err error) *Error {
	return New(http.StatusBadGateway, CodeAdapter, err)
}

func Database(err error) *Error {
	return New(http.StatusInternalServerError, CodeDatabase, err)
}

// From extracts an *Error from an error chain, if present.
func From(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
