package songqueue

import "net/http"

// apiError carries the HTTP status a domain failure maps to.
type apiError struct {
	status int
	msg    string
}

func (e *apiError) Error() string {
	return e.msg
}

func notFoundError(msg string) *apiError {
	return &apiError{status: http.StatusNotFound, msg: msg}
}

func badRequestError(msg string) *apiError {
	return &apiError{status: http.StatusBadRequest, msg: msg}
}

// duplicateError marks an unconfirmed duplicate submission. It is expected
// control flow: clients re-submit with confirmDuplicate to force insertion.
type duplicateError struct {
	msg string
}

func (e *duplicateError) Error() string {
	return e.msg
}
