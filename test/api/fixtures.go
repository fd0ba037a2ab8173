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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/book-api-tests/pkg/openapi"

	"k8s.io/utils/ptr"
)

// BookFactory composes client calls into asserted workflows.  Every method
// fails the current spec via Gomega when the service misbehaves.
type BookFactory struct {
	client *APIClient
}

func NewBookFactory(client *APIClient) *BookFactory {
	return &BookFactory{
		client: client,
	}
}

func (f *BookFactory) Client() *APIClient {
	return f.client
}

// SignupUniqueUser registers freshly generated credentials.
func (f *BookFactory) SignupUniqueUser(ctx context.Context) openapi.User {
	user := NewUniqueUser()

	GinkgoWriter.Printf("Signing up user %s (local ID %d)\n", user.Email, ptr.Deref(user.Id, 0))

	_, err := f.client.Signup(ctx, user)
	Expect(err).NotTo(HaveOccurred(), "signup of %s should succeed", user.Email)

	return user
}

// LoginAndGetToken logs the user in, the token is retained by the client
// session.
func (f *BookFactory) LoginAndGetToken(ctx context.Context, user openapi.User) string {
	_, err := f.client.Login(ctx, user)
	Expect(err).NotTo(HaveOccurred(), "login of %s should succeed", user.Email)

	token := f.client.Session().Token()
	Expect(token).NotTo(BeEmpty(), "login should return an access token")

	return token
}

func (f *BookFactory) VerifyHealthEndpointIsAccessible(ctx context.Context) {
	_, err := f.client.GetHealth(ctx)
	Expect(err).NotTo(HaveOccurred(), "health endpoint should be accessible")
}

// CreateAndVerifyUniqueBook creates a randomly generated book.
func (f *BookFactory) CreateAndVerifyUniqueBook(ctx context.Context) openapi.Book {
	return f.CreateAndVerifyBook(ctx, NewBookPayload().Build())
}

// CreateAndVerifyBook creates the book, checks every submitted field is
// echoed back with a new ID, and that the book can be read back.
func (f *BookFactory) CreateAndVerifyBook(ctx context.Context, payload openapi.Book) openapi.Book {
	resp, err := f.client.CreateBook(ctx, payload)
	Expect(err).NotTo(HaveOccurred())

	var created openapi.Book

	Expect(resp.Decode(&created)).To(Succeed())
	Expect(created.Id).NotTo(BeNil(), "created book should have an ID")
	Expect(cmp.Diff(payload, created, cmpopts.IgnoreFields(openapi.Book{}, "Id"))).To(BeEmpty(), "created book should match the request")

	GinkgoWriter.Printf("Created book with ID: %d\n", *created.Id)

	fetched := f.getBook(ctx, *created.Id)
	Expect(fetched).To(Equal(created), "fetched book should match the created book")

	return created
}

// CreateTrackedBook creates and verifies a book and records it for
// teardown.
func (f *BookFactory) CreateTrackedBook(ctx context.Context, tracker *BookTracker, payload openapi.Book) openapi.Book {
	book := f.CreateAndVerifyBook(ctx, payload)

	tracker.Track(*book.Id)

	return book
}

// EnsureTrackedBook returns a tracked book, creating one if none exist so
// specs do not rely on earlier ones.
func (f *BookFactory) EnsureTrackedBook(ctx context.Context, tracker *BookTracker) int {
	if id, ok := tracker.Last(); ok {
		return id
	}

	return *f.CreateTrackedBook(ctx, tracker, NewBookPayload().Build()).Id
}

func (f *BookFactory) getBook(ctx context.Context, bookID int) openapi.Book {
	resp, err := f.client.GetBook(ctx, bookID)
	Expect(err).NotTo(HaveOccurred())

	var book openapi.Book

	Expect(resp.Decode(&book)).To(Succeed())

	return book
}

// ListBooks returns all books.
func (f *BookFactory) ListBooks(ctx context.Context) openapi.Books {
	resp, err := f.client.ListBooks(ctx)
	Expect(err).NotTo(HaveOccurred())

	var books openapi.Books

	Expect(resp.Decode(&books)).To(Succeed())

	return books
}

// GetAllBooksAndAssertCount lists books and checks there are at least min.
func (f *BookFactory) GetAllBooksAndAssertCount(ctx context.Context, minimum int) openapi.Books {
	books := f.ListBooks(ctx)
	Expect(len(books)).To(BeNumerically(">=", minimum), "expected at least %d books", minimum)

	return books
}

// UpdateAndVerifyBook changes the name, year and summary of a book then
// checks the author and ID are unchanged and the change persisted.
func (f *BookFactory) UpdateAndVerifyBook(ctx context.Context, bookID int, name string, year int, summary string) openapi.Book {
	original := f.getBook(ctx, bookID)
	author := original.Author

	update := original
	update.Id = ptr.To(bookID)
	update.Name = ptr.To(name)
	update.PublishedYear = ptr.To(year)
	update.BookSummary = ptr.To(summary)

	resp, err := f.client.UpdateBook(ctx, bookID, update)
	Expect(err).NotTo(HaveOccurred())

	var updated openapi.Book

	Expect(resp.Decode(&updated)).To(Succeed())
	Expect(updated.Id).To(HaveValue(Equal(bookID)), "book ID must not change")
	Expect(updated.Name).To(HaveValue(Equal(name)))
	Expect(updated.PublishedYear).To(HaveValue(Equal(year)))
	Expect(updated.BookSummary).To(HaveValue(Equal(summary)))
	Expect(updated.Author).To(Equal(author), "author must not change")
	Expect(cmp.Diff(original, updated, cmpopts.IgnoreFields(openapi.Book{}, "Name", "PublishedYear", "BookSummary"))).To(BeEmpty(), "fields not updated must be preserved")

	fetched := f.getBook(ctx, bookID)
	Expect(fetched.Name).To(HaveValue(Equal(name)), "update should persist")
	Expect(fetched.PublishedYear).To(HaveValue(Equal(year)), "update should persist")
	Expect(fetched.BookSummary).To(HaveValue(Equal(summary)), "update should persist")

	return updated
}

// DeleteAndVerifyBook deletes a book and checks it can no longer be read.
func (f *BookFactory) DeleteAndVerifyBook(ctx context.Context, bookID int) {
	_, err := f.client.DeleteBook(ctx, bookID)
	Expect(err).NotTo(HaveOccurred(), "book %d should be deleted", bookID)

	_, err = f.client.GetNonExistentBook(ctx, bookID)
	Expect(err).NotTo(HaveOccurred(), "deleted book %d should not be found", bookID)
}

// AttemptCreateBookWithInvalidData sends an undecodable book, which must be
// rejected as unprocessable.
func (f *BookFactory) AttemptCreateBookWithInvalidData(ctx context.Context) {
	_, err := f.client.CreateBookWithRawPayload(ctx, InvalidBookPayload(), ExpectStatus(http.StatusUnprocessableEntity))
	Expect(err).NotTo(HaveOccurred(), "request with invalid published_year should return a validation error")
}

// AttemptUnauthenticatedAccess lists books without a token, which must be
// forbidden.
func (f *BookFactory) AttemptUnauthenticatedAccess(ctx context.Context) {
	_, err := f.client.ListBooksUnauthenticated(ctx)
	Expect(err).NotTo(HaveOccurred(), "unauthenticated access should be forbidden")
}

// WaitForBookName polls a book until its name contains the substring.
func (f *BookFactory) WaitForBookName(ctx context.Context, bookID int, substring string, timeout time.Duration) openapi.Book {
	var book openapi.Book

	Eventually(func(g Gomega) {
		resp, err := f.client.GetBook(ctx, bookID)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(resp.Decode(&book)).To(Succeed())
		g.Expect(book.Name).To(HaveValue(ContainSubstring(substring)))
	}).WithContext(ctx).WithTimeout(timeout).WithPolling(f.client.Config().PollInterval).Should(Succeed())

	return book
}

// CleanupBooks deletes every tracked book.  Failures are logged and never
// stop the remaining deletions.  The IDs that are still listed afterwards
// are returned.
func (f *BookFactory) CleanupBooks(ctx context.Context, tracker *BookTracker) []int {
	ids := tracker.Drain()
	if len(ids) == 0 {
		return nil
	}

	GinkgoWriter.Printf("Cleaning up %d books\n", len(ids))

	for _, id := range ids {
		failures := InterceptGomegaFailures(func() {
			f.DeleteAndVerifyBook(ctx, id)
		})

		for _, failure := range failures {
			GinkgoWriter.Printf("Warning: failed to clean up book %d: %s\n", id, failure)
		}
	}

	if !f.client.Session().HasToken() {
		GinkgoWriter.Printf("Warning: no session, unable to check for leaked books\n")
		return nil
	}

	resp, err := f.client.ListBooks(ctx)
	if err != nil {
		GinkgoWriter.Printf("Warning: unable to check for leaked books: %v\n", err)
		return nil
	}

	var books openapi.Books

	if err := resp.Decode(&books); err != nil {
		GinkgoWriter.Printf("Warning: unable to check for leaked books: %v\n", err)
		return nil
	}

	listed := make([]int, 0, len(books))

	for _, book := range books {
		if book.Id != nil {
			listed = append(listed, *book.Id)
		}
	}

	leaked := Leaked(ids, listed)
	if len(leaked) > 0 {
		GinkgoWriter.Printf("Warning: books still present after cleanup: %v\n", leaked)
	}

	return leaked
}

// CleanupUser exists for symmetry, the service cannot delete users.
func (f *BookFactory) CleanupUser(user openapi.User) {
	GinkgoWriter.Printf("No delete-user endpoint, user %s (local ID %d) is left in place\n", user.Email, ptr.Deref(user.Id, 0))
}
