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

package api

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/nscaledev/book-api-tests/pkg/openapi"

	"k8s.io/utils/ptr"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 12

	MinPublishedYear = 1900
	MaxPublishedYear = 2024
)

// NewUniqueUser generates credentials that are unique per call.  The ID is
// local only and is never reconciled with the server.
func NewUniqueUser() openapi.User {
	return openapi.User{
		Id:       ptr.To(gofakeit.IntRange(1, 1000000)),
		Email:    gofakeit.Email(),
		Password: newPassword(),
	}
}

// newPassword returns a password with lower, upper, digit and special
// characters.
func newPassword() string {
	for {
		password := gofakeit.Password(true, true, true, true, false, gofakeit.IntRange(minPasswordLength, maxPasswordLength))

		if hasAllCharacterClasses(password) {
			return password
		}
	}
}

func hasAllCharacterClasses(s string) bool {
	var lower, upper, digit, special bool

	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}

	return lower && upper && digit && special
}

// BookPayloadBuilder builds book payloads for testing.
type BookPayloadBuilder struct {
	payload openapi.Book
}

// NewBookPayload creates a builder with a random, uniquely named book and
// no ID.
func NewBookPayload() *BookPayloadBuilder {
	return &BookPayloadBuilder{
		payload: openapi.Book{
			Name:          ptr.To(gofakeit.BookTitle() + " " + gofakeit.Numerify("####")),
			Author:        ptr.To(gofakeit.BookAuthor()),
			PublishedYear: ptr.To(gofakeit.IntRange(MinPublishedYear, MaxPublishedYear)),
			BookSummary:   ptr.To(gofakeit.Sentence(8)),
		},
	}
}

// WithName sets the book name.
func (b *BookPayloadBuilder) WithName(name string) *BookPayloadBuilder {
	b.payload.Name = ptr.To(name)
	return b
}

// WithAuthor sets the book author.
func (b *BookPayloadBuilder) WithAuthor(author string) *BookPayloadBuilder {
	b.payload.Author = ptr.To(author)
	return b
}

// WithPublishedYear sets the publication year.
func (b *BookPayloadBuilder) WithPublishedYear(year int) *BookPayloadBuilder {
	b.payload.PublishedYear = ptr.To(year)
	return b
}

// WithSummary sets the summary.
func (b *BookPayloadBuilder) WithSummary(summary string) *BookPayloadBuilder {
	b.payload.BookSummary = ptr.To(summary)
	return b
}

// WithoutSummary omits the summary.
func (b *BookPayloadBuilder) WithoutSummary() *BookPayloadBuilder {
	b.payload.BookSummary = nil
	return b
}

// Build returns the completed book payload.
func (b *BookPayloadBuilder) Build() openapi.Book {
	return b.payload
}

// InvalidBookPayload returns a book body with a null name and a bare word
// where the year belongs, which is not valid JSON.
func InvalidBookPayload() []byte {
	return fmt.Appendf(nil, `{"id": null, "name": null, "author": "%s", "published_year": test, "book_summary": "%s"}`,
		escape(gofakeit.BookAuthor()), escape(gofakeit.Sentence(8)))
}

// escape keeps generated text from breaking out of its string literal.
func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
