/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/nscaledev/book-api-tests/pkg/openapi"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Error is a HTTP error with a status code and the detail to report.
type Error struct {
	// status is the HTTP status code.
	status int

	// detail is either a string or a list of validation items.
	detail any

	// err is the underlying cause, logged but never returned to the client.
	err error
}

func newError(status int, detail any) *Error {
	return &Error{
		status: status,
		detail: detail,
	}
}

// WithError attaches a cause.
func (e *Error) WithError(err error) *Error {
	e.err = err

	return e
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.err
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%d %v: %v", e.status, e.detail, e.err)
	}

	return fmt.Sprintf("%d %v", e.status, e.detail)
}

// StatusCode returns the HTTP status code.
func (e *Error) StatusCode() int {
	return e.status
}

// Write renders the error.
func (e *Error) Write(w http.ResponseWriter, r *http.Request) {
	log := log.FromContext(r.Context())

	if e.status >= http.StatusInternalServerError {
		log.Error(e.err, "request failed", "status", e.status, "detail", e.detail)
	} else {
		log.V(1).Info("request rejected", "status", e.status, "detail", e.detail, "error", e.err)
	}

	body, err := json.Marshal(&openapi.ErrorResponse{Detail: e.detail})
	if err != nil {
		log.Error(err, "failed to marshal error response")

		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.status)

	if _, err := w.Write(body); err != nil {
		log.Error(err, "failed to write error response")
	}
}

// HTTPNotAuthenticated is raised when no bearer token is presented.
func HTTPNotAuthenticated() *Error {
	return newError(http.StatusForbidden, "Not authenticated")
}

// HTTPForbidden is raised when a bearer token is not valid.
func HTTPForbidden(detail string) *Error {
	return newError(http.StatusForbidden, detail)
}

// HTTPUnauthorized is raised when login credentials are wrong.
func HTTPUnauthorized(detail string) *Error {
	return newError(http.StatusUnauthorized, detail)
}

// HTTPBadRequest is raised for requests that are well formed but rejected.
func HTTPBadRequest(detail string) *Error {
	return newError(http.StatusBadRequest, detail)
}

// HTTPNotFound is raised when a resource does not exist.
func HTTPNotFound(detail string) *Error {
	return newError(http.StatusNotFound, detail)
}

// HTTPUnprocessableEntity is raised when a request cannot be decoded or
// fails validation.
func HTTPUnprocessableEntity(items ...openapi.ValidationItem) *Error {
	return newError(http.StatusUnprocessableEntity, items)
}

// ServerError is raised when something unexpected happens.
func ServerError(detail string) *Error {
	return newError(http.StatusInternalServerError, detail)
}

// HandleError writes any error as a response, unknown errors become a 500.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var httpError *Error

	if !errors.As(err, &httpError) {
		httpError = ServerError("unhandled error").WithError(err)
	}

	httpError.Write(w, r)
}
