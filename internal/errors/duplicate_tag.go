package errors

import "net/http"

var ErrDuplicateTag = &Exception{
	Message:    "tag already exists",
	StatusCode: http.StatusConflict,
}
