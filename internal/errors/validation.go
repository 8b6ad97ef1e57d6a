package errors

import "net/http"

var ErrValidation = &Exception{
	Message:    "validation failed",
	StatusCode: http.StatusBadRequest,
}

var ErrInvalidSort = &Exception{
	Message:    "unknown sort order",
	StatusCode: http.StatusBadRequest,
}
