package apperr

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code surfaced to API clients in the
// GraphQL extensions block.
type Code string

const (
	CodeNotAuthenticated Code = "NOT_AUTHENTICATED"
	CodeNotAuthorized    Code = "NOT_AUTHORIZED"
	CodeNotFound         Code = "NOT_FOUND"
	CodeValidation       Code = "VALIDATION_ERROR"
	CodeConflict         Code = "CONFLICT_ERROR"
)

// Error is an operation-level failure carrying a human-readable message and
// a machine-readable code. It never represents a process crash.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Extensions implements gqlerrors.ExtendedError so the code reaches clients
// under extensions.code.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": string(e.Code)}
}

// NotAuthenticated is returned when an operation requires a caller identity
// and none is present on the context.
func NotAuthenticated() *Error {
	return &Error{Code: CodeNotAuthenticated, Message: "Not authenticated"}
}

func NotAuthorized(msg string) *Error {
	return &Error{Code: CodeNotAuthorized, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

// CodeOf returns the code carried by err, or empty when err is not an
// operation-level failure.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
