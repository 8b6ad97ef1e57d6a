package errors

import "net/http"

var ErrPersistence = &Exception{
	Message:    "store write failed",
	StatusCode: http.StatusBadGateway,
}
