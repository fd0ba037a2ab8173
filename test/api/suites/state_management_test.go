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
	"fmt"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/book-api-tests/test/api"
)

// isolatedFactory signs in a new user with its own session and cleans up
// after the spec.
func isolatedFactory() (*api.BookFactory, *api.BookTracker) {
	isolated, err := api.NewAPIClientWithConfig(config)
	Expect(err).NotTo(HaveOccurred())

	f := api.NewBookFactory(isolated)
	t := api.NewBookTracker()

	u := f.SignupUniqueUser(ctx)
	f.LoginAndGetToken(ctx, u)

	DeferCleanup(func() {
		f.CleanupBooks(ctx, t)
		f.CleanupUser(u)
	})

	return f, t
}

var _ = Describe("State Management", func() {
	Context("When a book goes through its whole lifecycle", func() {
		It("should be created, read, updated and deleted", func() {
			f, t := isolatedFactory()

			payload := api.NewBookPayload().
				WithName("T1").
				WithAuthor("A").
				WithPublishedYear(2000).
				WithSummary("S").
				Build()

			book := f.CreateTrackedBook(ctx, t, payload)

			resp, err := f.Client().GetBook(ctx, *book.Id)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			updated := f.UpdateAndVerifyBook(ctx, *book.Id, "T1", 2025, "S")
			Expect(*updated.PublishedYear).To(Equal(2025))
			Expect(*updated.Author).To(Equal("A"))

			f.DeleteAndVerifyBook(ctx, *book.Id)
			t.Forget(*book.Id)
		})
	})

	Context("When a change is made", func() {
		It("should eventually be observed by a reader", func() {
			id := factory.EnsureTrackedBook(ctx, tracker)

			name := fmt.Sprintf("Polled %d", time.Now().UnixNano())

			factory.UpdateAndVerifyBook(ctx, id, name, 2001, "Observed by polling.")

			book := factory.WaitForBookName(ctx, id, name, config.TestTimeout)
			Expect(*book.Id).To(Equal(id))
		})
	})

	Context("When two sessions are in use", func() {
		It("should keep their tokens independent", func() {
			f, _ := isolatedFactory()

			Expect(f.Client().Session().Token()).NotTo(Equal(client.Session().Token()))

			token := f.Client().Session().Token()
			f.Client().Session().Clear()

			DeferCleanup(func() {
				f.Client().Session().Set(token)
			})

			Expect(client.Session().HasToken()).To(BeTrue())
			factory.GetAllBooksAndAssertCount(ctx, 0)

			_, err := f.Client().ListBooks(ctx)
			Expect(err).To(MatchError(api.ErrNoAccessToken))
		})
	})
})
