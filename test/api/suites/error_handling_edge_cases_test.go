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

//nolint:testpackage,revive // test package in suites is standard for these tests, dot imports standard for Ginkgo
package suites

import (
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/book-api-tests/test/api"
)

// deletedBookID returns the ID of a book that existed and has been deleted.
func deletedBookID() int {
	book := factory.CreateAndVerifyUniqueBook(ctx)

	factory.DeleteAndVerifyBook(ctx, *book.Id)

	return *book.Id
}

var _ = Describe("Error Handling and Edge Cases", func() {
	Context("When addressing a book that does not exist", func() {
		var bookID int

		BeforeEach(func() {
			bookID = deletedBookID()
		})

		It("should return not found on get", func() {
			_, err := client.GetNonExistentBook(ctx, bookID)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return not found on update", func() {
			payload := api.NewBookPayload().Build()

			resp, err := client.UpdateBook(ctx, bookID, payload)

			var statusError *api.StatusError

			Expect(errors.As(err, &statusError)).To(BeTrue())
			Expect(statusError.StatusCode).To(Equal(http.StatusNotFound))
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})

		It("should return not found on delete", func() {
			_, err := client.Do(ctx, true, http.MethodDelete, client.Endpoints().Book(bookID), nil, api.ExpectStatus(http.StatusNotFound))
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Context("When deleting a book twice", func() {
		It("should not report success the second time", func() {
			book := factory.CreateAndVerifyUniqueBook(ctx)

			_, err := client.DeleteBook(ctx, *book.Id)
			Expect(err).NotTo(HaveOccurred())

			_, err = client.Do(ctx, true, http.MethodDelete, client.Endpoints().Book(*book.Id), nil, Not(api.ExpectStatus(http.StatusOK)))
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Context("When the book identifier is malformed", func() {
		It("should reject a non-numeric identifier", func() {
			_, err := client.Do(ctx, true, http.MethodGet, client.Endpoints().BookRaw("not-a-number"), nil, api.ExpectStatusIn(http.StatusNotFound, http.StatusUnprocessableEntity))
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Context("When the body is not JSON at all", func() {
		It("should reject the request as unprocessable", func() {
			_, err := client.CreateBookWithRawPayload(ctx, []byte("this is not json"), api.ExpectStatus(http.StatusUnprocessableEntity))
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
