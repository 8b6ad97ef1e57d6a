package errors

import "net/http"

var ErrIdentityPending = &Exception{
	Message:    "board is still loading",
	StatusCode: http.StatusServiceUnavailable,
}
