// Copyright 2024 The gcsclient Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gcs

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"google.golang.org/api/googleapi"
)

// A *BadRequestError value is an error that indicates the server rejected the
// request as malformed (HTTP 400).
type BadRequestError struct {
	Err error
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("gcs.BadRequestError: %v", e.Err)
}

func (e *BadRequestError) Unwrap() error { return e.Err }

// A *ForbiddenError value is an error that indicates the credentials used are
// not authorized for the requested resource (HTTP 401 or 403).
type ForbiddenError struct {
	Err error
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("gcs.ForbiddenError: %v", e.Err)
}

func (e *ForbiddenError) Unwrap() error { return e.Err }

// A *NotFoundError value is an error that indicates a bucket or object was
// not found (HTTP 404).
type NotFoundError struct {
	Err error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("gcs.NotFoundError: %v", e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// A *ConflictError value is an error that indicates the request conflicts
// with the current remote state (HTTP 409).
type ConflictError struct {
	Err error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("gcs.ConflictError: %v", e.Err)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// A *PreconditionError value is an error that indicates a precondition failed
// (HTTP 412).
type PreconditionError struct {
	Err error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("gcs.PreconditionError: %v", e.Err)
}

func (e *PreconditionError) Unwrap() error { return e.Err }

// A *ServerError value is an error that indicates a server-side failure
// (HTTP 5xx). Server errors are retryable.
type ServerError struct {
	Err error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("gcs.ServerError: %v", e.Err)
}

func (e *ServerError) Unwrap() error { return e.Err }

// An *Error value is an unclassified request failure. It carries the HTTP
// status code and the raw response body for diagnostics. It is also used when
// a response body expected to be JSON fails to parse, in which case
// StatusCode is the (acceptable) status the server returned.
type Error struct {
	StatusCode int
	Body       []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("gcs.Error: status %d: %s", e.StatusCode, e.Body)
}

// An *IncompleteResourceError value is an error that indicates a remote
// operation was attempted on a resource whose identity attributes are not all
// bound. No request is made in that case.
type IncompleteResourceError struct {
	Resource string
	Missing  []string
}

func (e *IncompleteResourceError) Error() string {
	return fmt.Sprintf("gcs.IncompleteResourceError: %s is missing required attributes: %s",
		e.Resource, strings.Join(e.Missing, ", "))
}

// An *AttributeNotFoundError value is an error that indicates an attribute
// lookup could not be satisfied, either because the resource does not exist
// remotely or because its representation has no such field.
type AttributeNotFoundError struct {
	Resource  string
	Attribute string
}

func (e *AttributeNotFoundError) Error() string {
	return fmt.Sprintf("gcs.AttributeNotFoundError: %s has no attribute %q", e.Resource, e.Attribute)
}

// statusError converts a non-OK HTTP status into the error taxonomy. The
// classified kinds wrap a *googleapi.Error so callers can still reach the
// underlying code and body via errors.As.
func statusError(status int, body []byte) error {
	gerr := &googleapi.Error{Code: status, Body: string(body)}
	switch {
	case status == http.StatusBadRequest:
		return &BadRequestError{Err: gerr}
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return &ForbiddenError{Err: gerr}
	case status == http.StatusNotFound:
		return &NotFoundError{Err: gerr}
	case status == http.StatusConflict:
		return &ConflictError{Err: gerr}
	case status == http.StatusPreconditionFailed:
		return &PreconditionError{Err: gerr}
	case status >= 500 && status <= 599:
		return &ServerError{Err: gerr}
	}
	return &Error{StatusCode: status, Body: body}
}

// ShouldRetry decides whether an error from a remote call is transient.
// Server-side 5xx failures, rate-limit style statuses and network-level
// failures qualify; every other kind surfaces immediately.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}

	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return true
	}

	var genericErr *Error
	if errors.As(err, &genericErr) {
		switch genericErr.StatusCode {
		case http.StatusRequestTimeout, http.StatusTooManyRequests:
			return true
		}
	}

	// Network-level failures: the request never produced a status code.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	return false
}
