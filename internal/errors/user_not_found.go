package errors

import "net/http"

var ErrUserNotFound = &Exception{
	Message:    "user does not exist",
	StatusCode: http.StatusNotFound,
}
