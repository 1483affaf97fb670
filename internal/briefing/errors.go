package briefing

import (
	"errors"
	"fmt"
)

type errorCode string

const (
	ErrInternal    errorCode = "internal"
	ErrInvalid     errorCode = "invalid"
	ErrPersistence errorCode = "persistence"
)

// Error is an application error.
type Error struct {
	// Code is a machine-readable error code.
	Code errorCode

	// Description is a human-readable description of the error.
	Description string

	err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := "briefing: " + string(e.Code) + ": " + e.Description
	if e.err != nil {
		msg += ": " + e.err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.err }

func Errorf(code errorCode, format string, args ...any) error {
	return &Error{Code: code, Description: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and description to err. A nil err stays nil.
func Wrap(err error, code errorCode, description string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Description: description, err: err}
}

// ErrorCode returns the error code associated with err, or ErrInternal if err
// isn't an application error.
func ErrorCode(err error) errorCode {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return ErrInternal
}

// ErrorDescription returns a human-readable description of the error, or
// "internal error" if err isn't an application error.
func ErrorDescription(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Description != "" {
		return e.Description
	}
	return "internal error"
}
