package errors

import (
	"errors"
	"net/http"
)

// Exception is an error that carries the HTTP status it should be reported
// with. Message is safe to show to clients.
type Exception struct {
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	var validationErr ValidationErrors
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
