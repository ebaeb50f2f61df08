// Package apperr holds the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
	ErrInvalid  = errors.New("invalid input")
)

// Error carries an HTTP status and a client-facing message alongside the cause.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

// Invalid reports a rejected input field. The message is shown to clients as is.
func Invalid(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message, Err: ErrInvalid}
}

// Missing is Invalid for an absent required field.
func Missing(field string) *Error {
	return Invalid("Missing required field: " + field)
}

func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message, Err: ErrConflict}
}

// Status maps err onto an HTTP status code.
func Status(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Message returns the text safe to show to a client. Anything that is not
// part of the taxonomy is reported as a generic server error.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return "Not found"
	case errors.Is(err, ErrConflict):
		return "Already exists"
	case errors.Is(err, ErrInvalid):
		return "Invalid request"
	}
	return "Internal Server Error"
}
