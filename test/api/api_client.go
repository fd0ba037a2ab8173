/*
Copyright 2024-2025 the Unikorn Authors.
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

//nolint:revive // naming conventions acceptable in test code
package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/onsi/gomega/types"

	"github.com/nscaledev/book-api-tests/pkg/openapi"

	"k8s.io/apimachinery/pkg/util/wait"
)

var (
	// ErrNoAccessToken is returned when an authenticated request is built
	// for a session that has not logged in.  Nothing is sent.
	ErrNoAccessToken = errors.New("no access token in session, log in first")

	// ErrUnhealthy is returned when the service never reports healthy.
	ErrUnhealthy = errors.New("service is not healthy")
)

// sharedValidator parses the embedded API document once for all clients.
//
//nolint:gochecknoglobals
var sharedValidator = sync.OnceValues(openapi.NewValidator)

// StatusError is returned when a response status does not satisfy the
// expectation of the call.
type StatusError struct {
	Method     string
	Path       string
	Expected   string
	StatusCode int
	Body       string
	TraceID    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code for %s %s: expected %s, got %d, body: %s (trace ID: %s)", e.Method, e.Path, e.Expected, e.StatusCode, e.Body, e.TraceID)
}

// Response is a completed HTTP exchange.  Path is the endpoint path
// relative to the base URL.
type Response struct {
	Method     string
	Path       string
	StatusCode int
	Header     http.Header
	Body       []byte
	Duration   time.Duration
	TraceID    string
}

// Decode unmarshals the response body.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("unmarshaling %s %s response: %w", r.Method, r.Path, err)
	}

	return nil
}

// statusMatcher carries a one line description of the expected status.
type statusMatcher struct {
	types.GomegaMatcher

	description string
}

func (m *statusMatcher) String() string {
	return m.description
}

// ExpectStatus matches a single status code.
func ExpectStatus(code int) types.GomegaMatcher {
	return &statusMatcher{
		GomegaMatcher: gomega.Equal(code),
		description:   strconv.Itoa(code),
	}
}

// ExpectStatusIn matches any of the given status codes.
func ExpectStatusIn(codes ...int) types.GomegaMatcher {
	return &statusMatcher{
		GomegaMatcher: gomega.BeElementOf(codes),
		description:   fmt.Sprint(codes),
	}
}

// describeStatus renders an expectation on a single line.
func describeStatus(expected types.GomegaMatcher, actual int) string {
	if s, ok := expected.(fmt.Stringer); ok {
		return s.String()
	}

	return strings.Join(strings.Fields(expected.FailureMessage(actual)), " ")
}

type APIClient struct {
	baseURL   string
	client    *http.Client
	session   *Session
	config    *TestConfig
	endpoints *Endpoints
	validator *openapi.Validator
}

func NewAPIClient(baseURL string) (*APIClient, error) {
	config, err := LoadTestConfig()
	if err != nil {
		return nil, err
	}

	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return NewAPIClientWithConfig(config)
}

func NewAPIClientWithConfig(config *TestConfig) (*APIClient, error) {
	return NewAPIClientWithSession(config, NewSession())
}

// NewAPIClientWithSession creates a client that shares an existing session.
func NewAPIClientWithSession(config *TestConfig, session *Session) (*APIClient, error) {
	c := &APIClient{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		session:   session,
		config:    config,
		endpoints: NewEndpoints(),
	}

	if config.ValidateContract {
		validator, err := sharedValidator()
		if err != nil {
			return nil, fmt.Errorf("loading API contract: %w", err)
		}

		c.validator = validator
	}

	return c, nil
}

func (c *APIClient) Session() *Session {
	return c.session
}

func (c *APIClient) Config() *TestConfig {
	return c.config
}

func (c *APIClient) Endpoints() *Endpoints {
	return c.endpoints
}

// logError logs a generic error with trace context.
func (c *APIClient) logError(method, path string, duration time.Duration, traceParent string, err error, context string) {
	ginkgo.GinkgoWriter.Printf("[%s %s] ERROR %s duration=%s traceparent=%s error=%v\n", method, path, context, duration, traceParent, err)
	c.logTraceContext(traceParent)
}

// logUnexpectedStatus logs an unexpected HTTP status code.
func (c *APIClient) logUnexpectedStatus(resp *Response, expected string) {
	ginkgo.GinkgoWriter.Printf("[%s %s] UNEXPECTED STATUS expected=%s got=%d body=%s trace=%s\n", resp.Method, resp.Path, expected, resp.StatusCode, string(resp.Body), resp.TraceID)
	c.logTraceContext(resp.TraceID)
}

// logExchange logs the whole exchange.
func (c *APIClient) logExchange(resp *Response) {
	ginkgo.GinkgoWriter.Printf("[%s %s] status=%d duration=%s trace=%s\n", resp.Method, resp.Path, resp.StatusCode, resp.Duration, resp.TraceID)

	for key, values := range resp.Header {
		ginkgo.GinkgoWriter.Printf("[%s %s] header %s: %s\n", resp.Method, resp.Path, key, strings.Join(values, ", "))
	}

	if len(resp.Body) > 0 {
		ginkgo.GinkgoWriter.Printf("[%s %s] response body: %s\n", resp.Method, resp.Path, string(resp.Body))
	}
}

// logTraceContext logs the trace context information.
func (c *APIClient) logTraceContext(traceParent string) {
	ginkgo.GinkgoWriter.Printf("TRACE CONTEXT: Use trace ID '%s' to search logs for this request\n", extractTraceID(traceParent))
}

// generateTraceID creates a new W3C trace ID.
// we are using this to create a new trace ID for each request so if an error occurs we can find the request in the logs.
func generateTraceID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// generateSpanID creates a new W3C span ID.
func generateSpanID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	traceID := generateTraceID()
	spanID := generateSpanID()

	return fmt.Sprintf("00-%s-%s-01", traceID, spanID)
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

// unauthenticatedRequest is the template for calls that need no credentials.
func (c *APIClient) unauthenticatedRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader

	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// Add W3C Trace Context headers
	req.Header.Set("Traceparent", createTraceParent())
	req.Header.Set("Tracestate", "test-automation=ginkgo")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

// authenticatedRequest is the template for calls that present the session
// token.
func (c *APIClient) authenticatedRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	token := c.session.Token()
	if token == "" {
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrNoAccessToken)
	}

	req, err := c.unauthenticatedRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+token)

	return req, nil
}

// execute sends a request and reads the whole response, path is the
// endpoint path the request was built from.
func (c *APIClient) execute(req *http.Request, path string) (*Response, error) {
	method := req.Method
	traceParent := req.Header.Get("Traceparent")

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logError(method, path, duration, traceParent, err, "http request failed")
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logError(method, path, duration, traceParent, err, "reading response body")
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.config.LogRequests {
		ginkgo.GinkgoWriter.Printf("[%s %s] status=%d duration=%s traceparent=%s\n", method, path, resp.StatusCode, duration, traceParent)
	}

	if c.config.LogResponses && len(respBody) > 0 {
		ginkgo.GinkgoWriter.Printf("[%s %s] response body: %s\n", method, path, string(respBody))
	}

	result := &Response{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
		Duration:   duration,
		TraceID:    extractTraceID(traceParent),
	}

	return result, nil
}

// validate checks the response status against the expectation, and the
// response as a whole against the API contract.  The response is always
// returned so callers can inspect what went wrong.
func (c *APIClient) validate(ctx context.Context, resp *Response, expected types.GomegaMatcher, verbose bool) (*Response, error) {
	if verbose || c.config.DebugLogging {
		c.logExchange(resp)
	}

	ok, err := expected.Match(resp.StatusCode)
	if err != nil {
		return resp, fmt.Errorf("matching status code: %w", err)
	}

	if !ok {
		description := describeStatus(expected, resp.StatusCode)

		c.logUnexpectedStatus(resp, description)

		return resp, &StatusError{
			Method:     resp.Method,
			Path:       resp.Path,
			Expected:   description,
			StatusCode: resp.StatusCode,
			Body:       string(resp.Body),
			TraceID:    resp.TraceID,
		}
	}

	if c.validator != nil {
		if _, err := c.validator.ValidateResponse(ctx, resp.Method, resp.Path, resp.StatusCode, resp.Header, resp.Body); err != nil {
			ginkgo.GinkgoWriter.Printf("[%s %s] CONTRACT VIOLATION trace=%s error=%v\n", resp.Method, resp.Path, resp.TraceID, err)
			return resp, err
		}
	}

	return resp, nil
}

// call builds a request from the chosen template, executes it and validates
// the result.
func (c *APIClient) call(ctx context.Context, authenticated bool, method, path string, body []byte, expected types.GomegaMatcher, verbose bool) (*Response, error) {
	template := c.unauthenticatedRequest
	if authenticated {
		template = c.authenticatedRequest
	}

	req, err := template(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.execute(req, path)
	if err != nil {
		return nil, err
	}

	return c.validate(ctx, resp, expected, verbose)
}

func marshal(v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	return body, nil
}

func (c *APIClient) GetHealth(ctx context.Context) (*Response, error) {
	resp, err := c.call(ctx, false, http.MethodGet, c.endpoints.Health(), nil, ExpectStatus(http.StatusOK), true)
	if err != nil {
		return resp, fmt.Errorf("checking health: %w", err)
	}

	return resp, nil
}

func (c *APIClient) Signup(ctx context.Context, user openapi.User) (*Response, error) {
	body, err := marshal(user)
	if err != nil {
		return nil, err
	}

	resp, err := c.call(ctx, false, http.MethodPost, c.endpoints.Signup(), body, ExpectStatus(http.StatusOK), true)
	if err != nil {
		return resp, fmt.Errorf("signing up %s: %w", user.Email, err)
	}

	return resp, nil
}

// Login authenticates the user and stores the access token in the session.
func (c *APIClient) Login(ctx context.Context, user openapi.User) (*Response, error) {
	body, err := marshal(user)
	if err != nil {
		return nil, err
	}

	resp, err := c.call(ctx, false, http.MethodPost, c.endpoints.Login(), body, ExpectStatus(http.StatusOK), true)
	if err != nil {
		return resp, fmt.Errorf("logging in %s: %w", user.Email, err)
	}

	var auth openapi.AuthResponse

	if err := resp.Decode(&auth); err != nil {
		return resp, err
	}

	// An empty token must not clobber a session that is already valid.
	if auth.AccessToken != "" {
		c.session.Set(auth.AccessToken)
	}

	return resp, nil
}

func (c *APIClient) ListBooks(ctx context.Context) (*Response, error) {
	resp, err := c.call(ctx, true, http.MethodGet, c.endpoints.Books(), nil, ExpectStatus(http.StatusOK), false)
	if err != nil {
		return resp, fmt.Errorf("listing books: %w", err)
	}

	return resp, nil
}

func (c *APIClient) GetBook(ctx context.Context, bookID int) (*Response, error) {
	resp, err := c.call(ctx, true, http.MethodGet, c.endpoints.Book(bookID), nil, ExpectStatus(http.StatusOK), false)
	if err != nil {
		return resp, fmt.Errorf("getting book %d: %w", bookID, err)
	}

	return resp, nil
}

func (c *APIClient) CreateBook(ctx context.Context, book openapi.Book) (*Response, error) {
	body, err := marshal(book)
	if err != nil {
		return nil, err
	}

	resp, err := c.call(ctx, true, http.MethodPost, c.endpoints.Books(), body, ExpectStatus(http.StatusOK), false)
	if err != nil {
		return resp, fmt.Errorf("creating book: %w", err)
	}

	return resp, nil
}

func (c *APIClient) UpdateBook(ctx context.Context, bookID int, book openapi.Book) (*Response, error) {
	body, err := marshal(book)
	if err != nil {
		return nil, err
	}

	resp, err := c.call(ctx, true, http.MethodPut, c.endpoints.Book(bookID), body, ExpectStatus(http.StatusOK), false)
	if err != nil {
		return resp, fmt.Errorf("updating book %d: %w", bookID, err)
	}

	return resp, nil
}

func (c *APIClient) DeleteBook(ctx context.Context, bookID int) (*Response, error) {
	resp, err := c.call(ctx, true, http.MethodDelete, c.endpoints.Book(bookID), nil, ExpectStatus(http.StatusOK), false)
	if err != nil {
		return resp, fmt.Errorf("deleting book %d: %w", bookID, err)
	}

	return resp, nil
}

// GetNonExistentBook fetches a book that is expected not to exist.
func (c *APIClient) GetNonExistentBook(ctx context.Context, bookID int) (*Response, error) {
	resp, err := c.call(ctx, true, http.MethodGet, c.endpoints.Book(bookID), nil, ExpectStatus(http.StatusNotFound), false)
	if err != nil {
		return resp, fmt.Errorf("getting non-existent book %d: %w", bookID, err)
	}

	return resp, nil
}

// CreateBookWithRawPayload sends the payload verbatim, it need not be valid
// JSON.
func (c *APIClient) CreateBookWithRawPayload(ctx context.Context, payload []byte, expected types.GomegaMatcher) (*Response, error) {
	resp, err := c.call(ctx, true, http.MethodPost, c.endpoints.Books(), payload, expected, false)
	if err != nil {
		return resp, fmt.Errorf("creating book from raw payload: %w", err)
	}

	return resp, nil
}

// ListBooksUnauthenticated lists books without credentials, which must be
// refused.
func (c *APIClient) ListBooksUnauthenticated(ctx context.Context) (*Response, error) {
	resp, err := c.call(ctx, false, http.MethodGet, c.endpoints.Books(), nil, ExpectStatus(http.StatusForbidden), false)
	if err != nil {
		return resp, fmt.Errorf("listing books unauthenticated: %w", err)
	}

	return resp, nil
}

// Do performs an arbitrary call, this is for negative testing of requests
// the typed methods cannot express.
func (c *APIClient) Do(ctx context.Context, authenticated bool, method, path string, body []byte, expected types.GomegaMatcher) (*Response, error) {
	resp, err := c.call(ctx, authenticated, method, path, body, expected, false)
	if err != nil {
		return resp, fmt.Errorf("%s %s: %w", method, path, err)
	}

	return resp, nil
}

// WaitForHealthy polls the health endpoint until it succeeds or the test
// timeout expires.
func (c *APIClient) WaitForHealthy(ctx context.Context) error {
	var lastErr error

	err := wait.PollUntilContextTimeout(ctx, c.config.PollInterval, c.config.TestTimeout, true, func(ctx context.Context) (bool, error) {
		if _, err := c.call(ctx, false, http.MethodGet, c.endpoints.Health(), nil, ExpectStatus(http.StatusOK), false); err != nil {
			lastErr = err
			return false, nil
		}

		return true, nil
	})
	if err != nil {
		if lastErr != nil {
			return fmt.Errorf("%w: %w: last error: %w", ErrUnhealthy, err, lastErr)
		}

		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}

	return nil
}
