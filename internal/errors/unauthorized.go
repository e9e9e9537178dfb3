package errors

import "net/http"

var ErrUnauthorized = &Exception{
	Message:    "authentication credentials were not provided or are invalid",
	StatusCode: http.StatusUnauthorized,
}
