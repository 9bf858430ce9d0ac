// Package apierr is the typed error the query surface maps to structured
// error envelopes. It never carries a stack trace in its primary message.
package apierr

import "fmt"

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(err error) *Error {
	return New(404, "not_found", err)
}

func Internal(err error) *Error {
	return New(500, "internal_error", err)
}

func BadRequest(err error) *Error {
	return New(400, "bad_request", err)
}
