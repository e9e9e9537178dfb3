package errors

import "net/http"

var ErrInvalidPassword = &Exception{
	Message:    "invalid password",
	StatusCode: http.StatusBadRequest,
}
