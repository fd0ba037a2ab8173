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

//nolint:revive
package handler

import (
	goerrors "errors"
	"net/http"
	"strings"

	"github.com/nscaledev/book-api-tests/pkg/openapi"
	"github.com/nscaledev/book-api-tests/pkg/server/errors"
	"github.com/nscaledev/book-api-tests/pkg/server/store"
	"github.com/nscaledev/book-api-tests/pkg/server/util"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

type Handler struct {
	// store holds users, tokens and books.
	store store.Store
}

// Ensure the interface is implemented.
var _ ServerInterface = &Handler{}

func New(store store.Store) (*Handler, error) {
	h := &Handler{
		store: store,
	}

	return h, nil
}

func (h *Handler) setUncacheable(w http.ResponseWriter) {
	w.Header().Add("Cache-Control", "no-cache")
}

// Authenticate is middleware that requires a valid bearer token.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
			errors.HandleError(w, r, errors.HTTPNotAuthenticated())
			return
		}

		email, err := h.store.LookupToken(ctx, token)
		if err != nil {
			errors.HandleError(w, r, errors.HTTPForbidden("Could not validate credentials").WithError(err))
			return
		}

		ctx = log.IntoContext(ctx, log.FromContext(ctx).WithValues("user", email))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.setUncacheable(w)
	util.WriteJSONResponse(w, r, http.StatusOK, &openapi.HealthResponse{Status: "up"})
}

func (h *Handler) PostSignup(w http.ResponseWriter, r *http.Request) {
	request := &openapi.User{}

	if err := util.ReadJSONBody(r, request); err != nil {
		errors.HandleError(w, r, err)
		return
	}

	if err := validateUser(request); err != nil {
		errors.HandleError(w, r, err)
		return
	}

	if err := h.store.CreateUser(r.Context(), *request); err != nil {
		if goerrors.Is(err, store.ErrConflict) {
			errors.HandleError(w, r, errors.HTTPBadRequest("Email already registered").WithError(err))
			return
		}

		errors.HandleError(w, r, errors.ServerError("unable to create user").WithError(err))

		return
	}

	util.WriteJSONResponse(w, r, http.StatusOK, &openapi.MessageResponse{Message: "User created successfully"})
}

func (h *Handler) PostLogin(w http.ResponseWriter, r *http.Request) {
	request := &openapi.User{}

	if err := util.ReadJSONBody(r, request); err != nil {
		errors.HandleError(w, r, err)
		return
	}

	if err := validateUser(request); err != nil {
		errors.HandleError(w, r, err)
		return
	}

	token, err := h.store.Authenticate(r.Context(), request.Email, request.Password)
	if err != nil {
		if goerrors.Is(err, store.ErrUnauthorized) {
			errors.HandleError(w, r, errors.HTTPUnauthorized("Incorrect email or password").WithError(err))
			return
		}

		errors.HandleError(w, r, errors.ServerError("unable to authenticate").WithError(err))

		return
	}

	result := &openapi.AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
	}

	h.setUncacheable(w)
	util.WriteJSONResponse(w, r, http.StatusOK, result)
}

func (h *Handler) GetBooks(w http.ResponseWriter, r *http.Request) {
	result, err := h.store.ListBooks(r.Context())
	if err != nil {
		errors.HandleError(w, r, errors.ServerError("unable to list books").WithError(err))
		return
	}

	h.setUncacheable(w)
	util.WriteJSONResponse(w, r, http.StatusOK, result)
}

func (h *Handler) PostBooks(w http.ResponseWriter, r *http.Request) {
	request, err := readBook(r)
	if err != nil {
		errors.HandleError(w, r, err)
		return
	}

	// IDs are always allocated by the service.
	request.Id = nil

	result, err := h.store.CreateBook(r.Context(), *request)
	if err != nil {
		errors.HandleError(w, r, errors.ServerError("unable to create book").WithError(err))
		return
	}

	h.setUncacheable(w)
	util.WriteJSONResponse(w, r, http.StatusOK, result)
}

func (h *Handler) GetBooksBookID(w http.ResponseWriter, r *http.Request, bookID openapi.BookIDParameter) {
	result, err := h.store.GetBook(r.Context(), bookID)
	if err != nil {
		errors.HandleError(w, r, bookError(err))
		return
	}

	h.setUncacheable(w)
	util.WriteJSONResponse(w, r, http.StatusOK, result)
}

func (h *Handler) PutBooksBookID(w http.ResponseWriter, r *http.Request, bookID openapi.BookIDParameter) {
	request, err := readBook(r)
	if err != nil {
		errors.HandleError(w, r, err)
		return
	}

	result, err := h.store.UpdateBook(r.Context(), bookID, *request)
	if err != nil {
		errors.HandleError(w, r, bookError(err))
		return
	}

	h.setUncacheable(w)
	util.WriteJSONResponse(w, r, http.StatusOK, result)
}

func (h *Handler) DeleteBooksBookID(w http.ResponseWriter, r *http.Request, bookID openapi.BookIDParameter) {
	if err := h.store.DeleteBook(r.Context(), bookID); err != nil {
		errors.HandleError(w, r, bookError(err))
		return
	}

	h.setUncacheable(w)
	util.WriteJSONResponse(w, r, http.StatusOK, &openapi.MessageResponse{Message: "Book deleted successfully"})
}

// bookError translates store errors for book operations.
func bookError(err error) error {
	if goerrors.Is(err, store.ErrNotFound) {
		return errors.HTTPNotFound("Book not found").WithError(err)
	}

	return errors.ServerError("unable to access book").WithError(err)
}

func missing(field string) openapi.ValidationItem {
	return openapi.ValidationItem{
		Loc:  []string{"body", field},
		Msg:  "field required",
		Type: "value_error.missing",
	}
}

func validateUser(user *openapi.User) error {
	var items []openapi.ValidationItem

	if user.Email == "" {
		items = append(items, missing("email"))
	}

	if user.Password == "" {
		items = append(items, missing("password"))
	}

	if len(items) > 0 {
		return errors.HTTPUnprocessableEntity(items...)
	}

	return nil
}

// readBook decodes a book and checks required fields are present.
func readBook(r *http.Request) (*openapi.Book, error) {
	book := &openapi.Book{}

	if err := util.ReadJSONBody(r, book); err != nil {
		return nil, err
	}

	var items []openapi.ValidationItem

	if book.Name == nil {
		items = append(items, missing("name"))
	}

	if book.Author == nil {
		items = append(items, missing("author"))
	}

	if book.PublishedYear == nil {
		items = append(items, missing("published_year"))
	}

	if len(items) > 0 {
		return nil, errors.HTTPUnprocessableEntity(items...)
	}

	return book, nil
}
