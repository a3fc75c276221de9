// Package apperr defines the error taxonomy shared by the store, persistence,
// remote client and HTTP layers.
package apperr

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure.
type Code string

const (
	CodeNotFound         Code = "NOT_FOUND"
	CodePermissionDenied Code = "PERMISSION_DENIED"
	CodeStorageFailure   Code = "STORAGE_FAILURE"
	CodeNetworkFailure   Code = "NETWORK_FAILURE"
	CodeCreationError    Code = "CREATION_ERROR"
	CodeValidation       Code = "VALIDATION_FAILED"
	CodeUnauthorized     Code = "UNAUTHORIZED"
)

// Sentinels for errors.Is. Any *Error with the same Code matches.
var (
	ErrNotFound         = &Error{Code: CodeNotFound, Message: "not found"}
	ErrPermissionDenied = &Error{Code: CodePermissionDenied, Message: "permission denied"}
	ErrStorageFailure   = &Error{Code: CodeStorageFailure, Message: "storage failure"}
	ErrNetworkFailure   = &Error{Code: CodeNetworkFailure, Message: "network failure"}
	ErrCreation         = &Error{Code: CodeCreationError, Message: "creation failed"}
	ErrValidation       = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrUnauthorized     = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
)

// Error is a coded error with the operation that raised it and an optional cause.
type Error struct {
	Code    Code
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error carrying the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New builds an error of the given code.
func New(code Code, op, message string) *Error {
	return &Error{Code: code, Op: op, Message: message}
}

// Wrap builds an error of the given code around cause.
func Wrap(code Code, op string, cause error, message string) *Error {
	return &Error{Code: code, Op: op, Message: message, Cause: cause}
}

// NotFound reports a missing complaint, user or notification.
func NotFound(op, format string, args ...any) *Error {
	return New(CodeNotFound, op, fmt.Sprintf(format, args...))
}

// Validation reports invalid input.
func Validation(op, format string, args ...any) *Error {
	return New(CodeValidation, op, fmt.Sprintf(format, args...))
}

// Storage wraps a local persistence failure.
func Storage(op string, cause error) *Error {
	return Wrap(CodeStorageFailure, op, cause, "storage failure")
}

// Network wraps a remote call failure.
func Network(op string, cause error) *Error {
	return Wrap(CodeNetworkFailure, op, cause, "network failure")
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
