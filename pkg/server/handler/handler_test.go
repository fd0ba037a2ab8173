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

package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nscaledev/book-api-tests/pkg/openapi"
	"github.com/nscaledev/book-api-tests/pkg/server/handler"
	"github.com/nscaledev/book-api-tests/pkg/server/store"
	"github.com/nscaledev/book-api-tests/pkg/server/store/mock"

	"k8s.io/utils/ptr"
)

const token = "c2VjcmV0"

func newRouter(t *testing.T, s store.Store) http.Handler {
	t.Helper()

	h, err := handler.New(s)
	require.NoError(t, err)

	return handler.HandlerFromMux(h, h.Authenticate, chi.NewRouter())
}

func do(t *testing.T, router http.Handler, method, path, body string, authenticated bool) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request

	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}

	if authenticated {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) openapi.ErrorResponse {
	t.Helper()

	var result openapi.ErrorResponse

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	return result
}

func TestHealth(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	router := newRouter(t, mock.NewMockStore(ctrl))

	w := do(t, router, http.MethodGet, "/health", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"up"}`, w.Body.String())
}

func TestSignup(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	s := mock.NewMockStore(ctrl)
	router := newRouter(t, s)

	s.EXPECT().CreateUser(gomock.Any(), openapi.User{Id: ptr.To(7), Email: "a@example.com", Password: "Passw0rd!"}).Return(nil)
	s.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(store.ErrConflict)

	w := do(t, router, http.MethodPost, "/signup", `{"id":7,"email":"a@example.com","password":"Passw0rd!"}`, false)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"message":"User created successfully"}`, w.Body.String())

	w = do(t, router, http.MethodPost, "/signup", `{"id":7,"email":"a@example.com","password":"Passw0rd!"}`, false)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, "/signup", `{"email":"a@example.com"}`, false)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	s := mock.NewMockStore(ctrl)
	router := newRouter(t, s)

	s.EXPECT().Authenticate(gomock.Any(), "a@example.com", "Passw0rd!").Return(token, nil)
	s.EXPECT().Authenticate(gomock.Any(), "a@example.com", "wrong").Return("", store.ErrUnauthorized)

	w := do(t, router, http.MethodPost, "/login", `{"email":"a@example.com","password":"Passw0rd!"}`, false)
	require.Equal(t, http.StatusOK, w.Code)

	var result openapi.AuthResponse

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Equal(t, token, result.AccessToken)
	require.Equal(t, "bearer", result.TokenType)

	w = do(t, router, http.MethodPost, "/login", `{"email":"a@example.com","password":"wrong"}`, false)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthentication(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	s := mock.NewMockStore(ctrl)
	router := newRouter(t, s)

	w := do(t, router, http.MethodGet, "/books/", "", false)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "Not authenticated", decodeError(t, w).Detail)

	s.EXPECT().LookupToken(gomock.Any(), "bogus").Return("", store.ErrUnauthorized)

	r := httptest.NewRequest(http.MethodGet, "/books/", nil)
	r.Header.Set("Authorization", "Bearer bogus")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "Could not validate credentials", decodeError(t, w).Detail)

	r = httptest.NewRequest(http.MethodGet, "/books/", nil)
	r.Header.Set("Authorization", "Basic "+token)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateBook(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	s := mock.NewMockStore(ctrl)
	router := newRouter(t, s)

	expected := openapi.Book{
		Name:          ptr.To("T1"),
		Author:        ptr.To("A"),
		PublishedYear: ptr.To(2000),
		BookSummary:   ptr.To("S"),
	}

	created := expected
	created.Id = ptr.To(1)

	s.EXPECT().LookupToken(gomock.Any(), token).Return("a@example.com", nil).AnyTimes()
	s.EXPECT().CreateBook(gomock.Any(), expected).Return(&created, nil)

	// Client supplied IDs are discarded.
	w := do(t, router, http.MethodPost, "/books/", `{"id":99,"name":"T1","author":"A","published_year":2000,"book_summary":"S"}`, true)
	require.Equal(t, http.StatusOK, w.Code)

	var result openapi.Book

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Equal(t, created, result)
}

func TestCreateBookInvalid(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	s := mock.NewMockStore(ctrl)
	router := newRouter(t, s)

	s.EXPECT().LookupToken(gomock.Any(), token).Return("a@example.com", nil).AnyTimes()

	bodies := []string{
		`{"id": null, "name": null, "author": "A", "published_year": test, "book_summary": "S"}`,
		`{"name":"T1","author":"A","published_year":"2000"}`,
		`{"name":null,"author":"A","published_year":2000}`,
		`{"author":"A","published_year":2000}`,
	}

	for _, body := range bodies {
		w := do(t, router, http.MethodPost, "/books/", body, true)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, body)
		require.NotNil(t, decodeError(t, w).Detail)
	}
}

func TestBookByID(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	s := mock.NewMockStore(ctrl)
	router := newRouter(t, s)

	book := &openapi.Book{
		Id:            ptr.To(3),
		Name:          ptr.To("T1"),
		Author:        ptr.To("A"),
		PublishedYear: ptr.To(2000),
	}

	s.EXPECT().LookupToken(gomock.Any(), token).Return("a@example.com", nil).AnyTimes()
	s.EXPECT().GetBook(gomock.Any(), 3).Return(book, nil)
	s.EXPECT().GetBook(gomock.Any(), 4).Return(nil, store.ErrNotFound)
	s.EXPECT().UpdateBook(gomock.Any(), 3, gomock.Any()).Return(book, nil)
	s.EXPECT().DeleteBook(gomock.Any(), 3).Return(nil)
	s.EXPECT().DeleteBook(gomock.Any(), 4).Return(store.ErrNotFound)

	w := do(t, router, http.MethodGet, "/books/3", "", true)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, "/books/4", "", true)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Book not found", decodeError(t, w).Detail)

	w = do(t, router, http.MethodPut, "/books/3", `{"id":3,"name":"T2","author":"A","published_year":2025}`, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodDelete, "/books/3", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"message":"Book deleted successfully"}`, w.Body.String())

	w = do(t, router, http.MethodDelete, "/books/4", "", true)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodGet, "/books/abc", "", true)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
