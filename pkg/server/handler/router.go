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

//nolint:revive
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/nscaledev/book-api-tests/pkg/openapi"
	"github.com/nscaledev/book-api-tests/pkg/server/errors"
)

// ServerInterface is implemented by anything that serves the book API.
type ServerInterface interface {
	GetHealth(w http.ResponseWriter, r *http.Request)
	PostSignup(w http.ResponseWriter, r *http.Request)
	PostLogin(w http.ResponseWriter, r *http.Request)
	GetBooks(w http.ResponseWriter, r *http.Request)
	PostBooks(w http.ResponseWriter, r *http.Request)
	GetBooksBookID(w http.ResponseWriter, r *http.Request, bookID openapi.BookIDParameter)
	PutBooksBookID(w http.ResponseWriter, r *http.Request, bookID openapi.BookIDParameter)
	DeleteBooksBookID(w http.ResponseWriter, r *http.Request, bookID openapi.BookIDParameter)
}

// withBookID binds the book ID path parameter.
func withBookID(f func(http.ResponseWriter, *http.Request, openapi.BookIDParameter)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var bookID openapi.BookIDParameter

		options := runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		}

		if err := runtime.BindStyledParameterWithOptions("simple", "book_id", chi.URLParam(r, "book_id"), &bookID, options); err != nil {
			item := openapi.ValidationItem{
				Loc:  []string{"path", "book_id"},
				Msg:  "value is not a valid integer",
				Type: "type_error.integer",
			}

			errors.HandleError(w, r, errors.HTTPUnprocessableEntity(item).WithError(err))

			return
		}

		f(w, r, bookID)
	}
}

// HandlerFromMux registers the API with a router, authenticate guards all
// book routes.
func HandlerFromMux(si ServerInterface, authenticate func(http.Handler) http.Handler, r chi.Router) http.Handler {
	r.Get("/health", si.GetHealth)
	r.Post("/signup", si.PostSignup)
	r.Post("/login", si.PostLogin)

	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		for _, collection := range []string{"/books", "/books/"} {
			r.Get(collection, si.GetBooks)
			r.Post(collection, si.PostBooks)
		}

		r.Get("/books/{book_id}", withBookID(si.GetBooksBookID))
		r.Put("/books/{book_id}", withBookID(si.PutBooksBookID))
		r.Delete("/books/{book_id}", withBookID(si.DeleteBooksBookID))
	})

	return r
}
