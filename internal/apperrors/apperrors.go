package apperrors

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated = errors.New("Unauthorized")
	ErrForbidden       = errors.New("Forbidden")
	ErrNotFound        = errors.New("Not found")
	ErrInvalidInput    = errors.New("Invalid input")
	ErrConflict        = errors.New("Already exists")
)

// Error carries a client-facing message alongside one of the sentinel kinds.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

func Invalid(msg string) error { return &Error{Kind: ErrInvalidInput, Message: msg} }

func Conflict(msg string) error { return &Error{Kind: ErrConflict, Message: msg} }

func Forbidden(msg string) error { return &Error{Kind: ErrForbidden, Message: msg} }

// CheckError maps an error to the HTTP status it should surface as.
func CheckError(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Message returns the text safe to show a client. Internal errors get a
// generic message; their detail belongs in the server log.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	if CheckError(err) != http.StatusInternalServerError {
		for _, kind := range []error{ErrUnauthenticated, ErrForbidden, ErrNotFound, ErrInvalidInput, ErrConflict} {
			if errors.Is(err, kind) {
				return kind.Error()
			}
		}
	}
	return "Internal server error"
}
