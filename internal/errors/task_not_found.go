package errors

import "net/http"

// ErrTaskNotFound is also returned for tasks owned by someone else.
var ErrTaskNotFound = &Exception{
	Message:    "task not found",
	StatusCode: http.StatusNotFound,
}
