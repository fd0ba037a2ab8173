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
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nscaledev/book-api-tests/pkg/openapi"

	"k8s.io/utils/ptr"
)

var ErrInvalidSeed = errors.New("invalid seed")

// Seed is initial store content, typically read from a YAML file e.g.
//
//	users:
//	- email: reader@example.com
//	  password: s3cret!Pass
//	books:
//	- name: Dune
//	  author: Frank Herbert
//	  published_year: 1965
//	  book_summary: Politics and spice.
type Seed struct {
	Users []SeedUser `yaml:"users"`
	Books []SeedBook `yaml:"books"`
}

type SeedUser struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type SeedBook struct {
	Name          string `yaml:"name"`
	Author        string `yaml:"author"`
	PublishedYear int    `yaml:"published_year"`
	BookSummary   string `yaml:"book_summary"`
}

// Book converts to the wire type, an empty summary is omitted.
func (b SeedBook) Book() openapi.Book {
	book := openapi.Book{
		Name:          ptr.To(b.Name),
		Author:        ptr.To(b.Author),
		PublishedYear: ptr.To(b.PublishedYear),
	}

	if b.BookSummary != "" {
		book.BookSummary = ptr.To(b.BookSummary)
	}

	return book
}

// ParseSeed decodes and validates seed data.
func ParseSeed(data []byte) (*Seed, error) {
	seed := &Seed{}

	if err := yaml.Unmarshal(data, seed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}

	for i, user := range seed.Users {
		if user.Email == "" || user.Password == "" {
			return nil, fmt.Errorf("%w: user %d requires an email and password", ErrInvalidSeed, i)
		}
	}

	for i, book := range seed.Books {
		if book.Name == "" || book.Author == "" {
			return nil, fmt.Errorf("%w: book %d requires a name and author", ErrInvalidSeed, i)
		}
	}

	return seed, nil
}

// LoadSeed reads seed data from a file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	return ParseSeed(data)
}
