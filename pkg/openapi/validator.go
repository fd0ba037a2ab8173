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

package openapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
)

// Validator checks responses against the book service contract.
type Validator struct {
	doc    *openapi3.T
	router routers.Router
}

// NewValidator builds a validator from the embedded document.
func NewValidator() (*Validator, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}

	return NewValidatorFromDocument(doc)
}

// NewValidatorFromDocument builds a validator from an already loaded document,
// the document itself must be valid.
func NewValidatorFromDocument(doc *openapi3.T) (*Validator, error) {
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("validating openapi document: %w", err)
	}

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("creating router: %w", err)
	}

	v := &Validator{
		doc:    doc,
		router: router,
	}

	return v, nil
}

// Document returns the document responses are validated against.
func (v *Validator) Document() *openapi3.T {
	return v.doc
}

// ValidateResponse validates a response, given the request method and path
// relative to the service root.  The templated route path is returned so
// callers can report which operation was matched.
func (v *Validator) ValidateResponse(ctx context.Context, method, path string, status int, header http.Header, body []byte) (string, error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parsing path: %w", err)
	}

	req := &http.Request{
		Method: method,
		URL:    u,
		Header: http.Header{},
	}

	route, pathParams, err := v.router.FindRoute(req)
	if err != nil {
		return "", fmt.Errorf("%s %s: route not found: %w", method, path, err)
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
		},
		Status: status,
		Header: header,
		Body:   io.NopCloser(bytes.NewReader(body)),
		Options: &openapi3filter.Options{
			IncludeResponseStatus: true,
		},
	}

	if err := openapi3filter.ValidateResponse(ctx, input); err != nil {
		return route.Path, fmt.Errorf("%s %s: response violates contract: %w", method, route.Path, err)
	}

	return route.Path, nil
}
