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

//nolint:testpackage,revive // test package in suites is standard for these tests, dot imports standard for Ginkgo
package suites

import (
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/book-api-tests/test/api"
)

var _ = Describe("Book Management", Ordered, func() {
	It("should report the health endpoint as accessible", Label("smoke"), func() {
		factory.VerifyHealthEndpointIsAccessible(ctx)
	})

	It("should create a unique book for an authenticated user", Label("sanity"), func() {
		book := factory.CreateTrackedBook(ctx, tracker, api.NewBookPayload().Build())

		Expect(book.Id).NotTo(BeNil())
		Expect(tracker.IDs()).To(ContainElement(*book.Id))
	})

	It("should retrieve all books for an authenticated user", Label("sanity"), func() {
		id := factory.EnsureTrackedBook(ctx, tracker)

		books := factory.GetAllBooksAndAssertCount(ctx, 1)

		ids := make([]int, 0, len(books))
		for _, book := range books {
			Expect(book.Id).NotTo(BeNil())
			ids = append(ids, *book.Id)
		}

		Expect(ids).To(ContainElement(id))
	})

	It("should update an existing book for an authenticated user", Label("sanity"), func() {
		id := factory.EnsureTrackedBook(ctx, tracker)

		name := fmt.Sprintf("Updated Name %d", time.Now().UnixMilli())
		summary := "Updated summary about the amazing book."

		updated := factory.UpdateAndVerifyBook(ctx, id, name, 2025, summary)

		Expect(*updated.Name).To(Equal(name))
		Expect(*updated.PublishedYear).To(Equal(2025))
		Expect(*updated.BookSummary).To(Equal(summary))
	})

	It("should reject creating a book with invalid data", Label("regression"), func() {
		factory.AttemptCreateBookWithInvalidData(ctx)
	})

	It("should delete an existing book for an authenticated user", Label("sanity"), func() {
		book := factory.CreateTrackedBook(ctx, tracker, api.NewBookPayload().Build())

		factory.DeleteAndVerifyBook(ctx, *book.Id)
		tracker.Forget(*book.Id)
	})

	It("should refuse authenticated endpoints without a token", Label("regression"), func() {
		token := client.Session().Token()
		client.Session().Clear()

		DeferCleanup(func() {
			client.Session().Set(token)
		})

		factory.AttemptUnauthenticatedAccess(ctx)
	})
})
