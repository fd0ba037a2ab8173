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

package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"maps"
	"slices"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/nscaledev/book-api-tests/pkg/openapi"

	"k8s.io/utils/ptr"
)

// Memory is an in-memory Store, safe for concurrent use.
type Memory struct {
	lock sync.RWMutex

	// users maps email to bcrypt password hash.
	users map[string][]byte

	// tokens maps access token to email.
	tokens map[string]string

	books  map[int]openapi.Book
	nextID int
}

// Ensure the interface is implemented.
var _ Store = &Memory{}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		users:  map[string][]byte{},
		tokens: map[string]string{},
		books:  map[int]openapi.Book{},
		nextID: 1,
	}
}

func (m *Memory) CreateUser(_ context.Context, user openapi.User) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.users[user.Email]; ok {
		return fmt.Errorf("%w: user %s", ErrConflict, user.Email)
	}

	m.users[user.Email] = hash

	return nil
}

func (m *Memory) Authenticate(_ context.Context, email, password string) (string, error) {
	m.lock.RLock()
	hash, ok := m.users[email]
	m.lock.RUnlock()

	if !ok {
		return "", ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", ErrUnauthorized
	}

	token := generateToken()

	m.lock.Lock()
	defer m.lock.Unlock()

	m.tokens[token] = email

	return token, nil
}

func (m *Memory) LookupToken(_ context.Context, token string) (string, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	email, ok := m.tokens[token]
	if !ok {
		return "", ErrUnauthorized
	}

	return email, nil
}

func (m *Memory) ListBooks(_ context.Context) (openapi.Books, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	ids := slices.Sorted(maps.Keys(m.books))

	books := make(openapi.Books, 0, len(ids))

	for _, id := range ids {
		books = append(books, copyBook(m.books[id]))
	}

	return books, nil
}

func (m *Memory) GetBook(_ context.Context, id int) (*openapi.Book, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	book, ok := m.books[id]
	if !ok {
		return nil, fmt.Errorf("%w: book %d", ErrNotFound, id)
	}

	return ptr.To(copyBook(book)), nil
}

func (m *Memory) CreateBook(_ context.Context, book openapi.Book) (*openapi.Book, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	id := m.nextID
	m.nextID++

	book = copyBook(book)
	book.Id = ptr.To(id)

	m.books[id] = book

	return ptr.To(copyBook(book)), nil
}

func (m *Memory) UpdateBook(_ context.Context, id int, book openapi.Book) (*openapi.Book, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.books[id]; !ok {
		return nil, fmt.Errorf("%w: book %d", ErrNotFound, id)
	}

	book = copyBook(book)
	book.Id = ptr.To(id)

	m.books[id] = book

	return ptr.To(copyBook(book)), nil
}

func (m *Memory) DeleteBook(_ context.Context, id int) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.books[id]; !ok {
		return fmt.Errorf("%w: book %d", ErrNotFound, id)
	}

	delete(m.books, id)

	return nil
}

// Seed loads users and books, books are assigned IDs in the order given.
func (m *Memory) Seed(ctx context.Context, seed *Seed) error {
	for _, user := range seed.Users {
		if err := m.CreateUser(ctx, openapi.User{Email: user.Email, Password: user.Password}); err != nil {
			return err
		}
	}

	for _, book := range seed.Books {
		if _, err := m.CreateBook(ctx, book.Book()); err != nil {
			return err
		}
	}

	return nil
}

// copyBook deep copies a book so callers cannot alias stored state.
func copyBook(in openapi.Book) openapi.Book {
	out := openapi.Book{}

	if in.Id != nil {
		out.Id = ptr.To(*in.Id)
	}

	if in.Name != nil {
		out.Name = ptr.To(*in.Name)
	}

	if in.Author != nil {
		out.Author = ptr.To(*in.Author)
	}

	if in.PublishedYear != nil {
		out.PublishedYear = ptr.To(*in.PublishedYear)
	}

	if in.BookSummary != nil {
		out.BookSummary = ptr.To(*in.BookSummary)
	}

	return out
}

func generateToken() string {
	bytes := make([]byte, 32)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}
