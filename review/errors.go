package review

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a review failure for the request boundary.
type ErrorCode string

const (
	// CodeInvalidArgument means the request was rejected before touching storage.
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// CodeNotFound means the card or course does not exist or belongs to someone else.
	CodeNotFound ErrorCode = "NOT_FOUND"
	// CodeStorage means the ledger or catalog could not be read or written.
	CodeStorage ErrorCode = "STORAGE"
)

// Error is a classified review failure.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func invalidArgument(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func notFound(msg string, cause error) *Error {
	return &Error{Code: CodeNotFound, Message: msg, Cause: cause}
}

func storageFailure(msg string, cause error) *Error {
	return &Error{Code: CodeStorage, Message: msg, Cause: cause}
}

// IsCode reports whether err is a review Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// CodeOf returns the code of err, or def if err is not a review Error.
func CodeOf(err error, def ErrorCode) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return def
}

// MessageOf returns the client-facing message of a review Error, or
// err.Error() for any other error.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
