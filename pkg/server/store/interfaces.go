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

//go:generate mockgen -source=interfaces.go -destination=mock/interfaces.go -package=mock
package store

import (
	"context"
	"errors"

	"github.com/nscaledev/book-api-tests/pkg/openapi"
)

var (
	// ErrNotFound is returned when a book does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when a user is already registered.
	ErrConflict = errors.New("resource already exists")

	// ErrUnauthorized is returned when credentials or tokens are not valid.
	ErrUnauthorized = errors.New("unauthorized")
)

// Store persists users, access tokens and books.
type Store interface {
	// CreateUser registers a new user.
	CreateUser(ctx context.Context, user openapi.User) error
	// Authenticate checks credentials and issues a new access token.
	Authenticate(ctx context.Context, email, password string) (string, error)
	// LookupToken returns the email of the user owning a token.
	LookupToken(ctx context.Context, token string) (string, error)
	// ListBooks returns all books ordered by ID.
	ListBooks(ctx context.Context) (openapi.Books, error)
	// GetBook returns a single book.
	GetBook(ctx context.Context, id int) (*openapi.Book, error)
	// CreateBook allocates an ID and stores the book.
	CreateBook(ctx context.Context, book openapi.Book) (*openapi.Book, error)
	// UpdateBook replaces a book's fields, the ID is preserved.
	UpdateBook(ctx context.Context, id int, book openapi.Book) (*openapi.Book, error)
	// DeleteBook removes a book.
	DeleteBook(ctx context.Context, id int) error
}
