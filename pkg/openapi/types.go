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

// BookIDParameter is the path parameter that selects a single book.
type BookIDParameter = int

// User is both the signup and login request body.
type User struct {
	// Id is generated by the client and never reconciled with the server.
	Id       *int   `json:"id,omitempty"` //nolint:revive,stylecheck
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// Book is a book record.  All fields are optional on the wire, nil values
// are omitted, which allows a proposed book to be sent without an ID.
type Book struct {
	Id            *int    `json:"id,omitempty"` //nolint:revive,stylecheck
	Name          *string `json:"name,omitempty"`
	Author        *string `json:"author,omitempty"`
	PublishedYear *int    `json:"published_year,omitempty"`
	BookSummary   *string `json:"book_summary,omitempty"`
}

// Books is a list of books.
type Books []Book

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// MessageResponse is a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationItem describes a single request validation failure.
type ValidationItem struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ErrorResponse covers both the detail style errors returned by the service
// and the richer status/error/message/path style.
type ErrorResponse struct {
	Detail    any     `json:"detail,omitempty"`
	Timestamp *string `json:"timestamp,omitempty"`
	Status    *int    `json:"status,omitempty"`
	Error     *string `json:"error,omitempty"`
	Message   *string `json:"message,omitempty"`
	Path      *string `json:"path,omitempty"`
}
