package blocktree

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL = "internal"     // unexpected failure
	EINVALID  = "invalid"      // input cannot be processed
	ENOTFOUND = "not_found"    // requested entity does not exist
	ERANGE    = "out_of_range" // node index was never allocated
)

// Error is an application error with a machine-readable code and a
// human-readable message.
type Error struct {
	// Code identifies the class of failure.
	Code string

	// Message is a description safe to show to an end user.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("blocktree error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps err and returns its code, if it carries one.
// Returns EINTERNAL for non-application errors and the empty string for nil.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps err and returns its message, if it carries one.
// Returns a generic message for non-application errors and the empty string
// for nil.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf returns an Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
