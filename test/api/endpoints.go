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
	"net/url"
)

// Endpoints contains all API endpoint patterns.
type Endpoints struct{}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints() *Endpoints {
	return &Endpoints{}
}

func (e *Endpoints) Health() string {
	return "/health"
}

// Account endpoints.
func (e *Endpoints) Signup() string {
	return "/signup"
}

func (e *Endpoints) Login() string {
	return "/login"
}

// Book endpoints, the collection carries a trailing slash.
func (e *Endpoints) Books() string {
	return "/books/"
}

func (e *Endpoints) Book(bookID int) string {
	return fmt.Sprintf("/books/%d", bookID)
}

// BookRaw allows arbitrary, possibly invalid, identifiers.
func (e *Endpoints) BookRaw(bookID string) string {
	return "/books/" + url.PathEscape(bookID)
}
