// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package odoo

import (
	"errors"
	"fmt"

	"github.com/gorilla/rpc/v2/json2"
)

var (
	// ErrEmptyBody is wrapped by a TransportError when the server answers
	// with no content.
	ErrEmptyBody = errors.New("odoo: empty response body")
	// ErrStatus is wrapped by a TransportError on a non-2xx status.
	ErrStatus = errors.New("odoo: unexpected status code")
	// ErrNullResult is returned by the typed helpers when a response has
	// neither result nor error.
	ErrNullResult = json2.ErrNullResult
	// ErrServer matches any *ServerError with errors.Is.
	ErrServer = &ServerError{}
)

// TransportError reports a failed round-trip: the connection could not be
// made, the status was not 2xx, or the body was empty.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("odoo: post %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("odoo: post %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a response body that is not valid JSON.
type DecodeError struct {
	Body []byte
	Err  error
}

func (e *DecodeError) Error() string {
	const maxLen = 200
	body := string(e.Body)
	if len(body) > maxLen {
		body = body[:maxLen] + "...<truncated>"
	}
	return fmt.Sprintf("odoo: decode response: %v (body %q)", e.Err, body)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ServerError is the error member of a well-formed response. The call
// layer never raises it; the typed helpers on Response do.
type ServerError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("odoo: server error %d: %s", e.Code, e.Message)
}

// Is supports errors.Is by matching any *ServerError target.
func (e *ServerError) Is(target error) bool {
	_, ok := target.(*ServerError)
	return ok
}

func serverErrorFrom(err *json2.Error) *ServerError {
	return &ServerError{
		Code:    int(err.Code),
		Message: err.Message,
		Data:    err.Data,
	}
}
