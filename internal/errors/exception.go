package errors

import (
	"errors"
	"net/http"
)

type Exception struct {
	Message    string
	StatusCode int

	cause error
}

func (e *Exception) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Exception) Unwrap() error {
	return e.cause
}

// Is matches any Exception carrying the same message and status, so a
// wrapped copy still compares equal to its sentinel.
func (e *Exception) Is(target error) bool {
	t, ok := target.(*Exception)
	if !ok {
		return false
	}
	return t.Message == e.Message && t.StatusCode == e.StatusCode
}

// Wrap returns a copy of the sentinel carrying cause.
func (e *Exception) Wrap(cause error) error {
	return &Exception{
		Message:    e.Message,
		StatusCode: e.StatusCode,
		cause:      cause,
	}
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
