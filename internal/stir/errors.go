package stir

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes generation errors.
type ErrorCode string

const (
	// CodeInvalidParameter marks a zero, negative or non-finite input that
	// would make the loop count undefined.
	CodeInvalidParameter ErrorCode = "INVALID_PARAMETER"

	// CodeGeometryViolation marks a stir circle or height outside the working
	// volume. Advisory only.
	CodeGeometryViolation ErrorCode = "GEOMETRY_VIOLATION"

	// CodeIOFailure marks an unwritable destination or a missing end-code file.
	CodeIOFailure ErrorCode = "IO_FAILURE"
)

// Error is a generation error with a code and the offending field.
type Error struct {
	Code    ErrorCode
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalid(field, format string, args ...any) *Error {
	return &Error{
		Code:    CodeInvalidParameter,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// IOFailure wraps err as an IO_FAILURE error.
func IOFailure(message string, err error) *Error {
	return &Error{Code: CodeIOFailure, Message: message, Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsInvalidParameter reports whether err carries CodeInvalidParameter.
func IsInvalidParameter(err error) bool {
	return CodeOf(err) == CodeInvalidParameter
}

// IsIOFailure reports whether err carries CodeIOFailure.
func IsIOFailure(err error) bool {
	return CodeOf(err) == CodeIOFailure
}
