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
	"encoding/json"
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/book-api-tests/pkg/openapi"
	"github.com/nscaledev/book-api-tests/test/api"
)

var _ = Describe("Security and Authentication", func() {
	Context("When accessing the API without valid credentials", func() {
		Describe("Given no authentication token", func() {
			It("should reject requests with missing authentication", func() {
				before := len(factory.ListBooks(ctx))

				_, err := client.ListBooksUnauthenticated(ctx)
				Expect(err).NotTo(HaveOccurred())

				Expect(factory.ListBooks(ctx)).To(HaveLen(before), "a refused request must not change state")
			})

			It("should refuse to build authenticated requests locally", func() {
				anonymous, err := api.NewAPIClientWithConfig(config)
				Expect(err).NotTo(HaveOccurred())

				resp, err := anonymous.ListBooks(ctx)
				Expect(err).To(MatchError(api.ErrNoAccessToken))
				Expect(resp).To(BeNil())
			})
		})

		Describe("Given an invalid authentication token", func() {
			It("should reject requests with an unknown token", func() {
				forged, err := api.NewAPIClientWithConfig(config)
				Expect(err).NotTo(HaveOccurred())

				forged.Session().Set("not-a-real-token")

				_, err = forged.Do(ctx, true, http.MethodGet, forged.Endpoints().Books(), nil, api.ExpectStatus(http.StatusForbidden))
				Expect(err).NotTo(HaveOccurred())
			})
		})

		Describe("Given incorrect login credentials", func() {
			It("should reject a login with the wrong password", func() {
				other, err := api.NewAPIClientWithConfig(config)
				Expect(err).NotTo(HaveOccurred())

				wrong := openapi.User{
					Id:       user.Id,
					Email:    user.Email,
					Password: user.Password + "-wrong",
				}

				_, err = other.Login(ctx, wrong)

				var statusError *api.StatusError

				Expect(err).To(HaveOccurred())
				Expect(errors.As(err, &statusError)).To(BeTrue())
				Expect(statusError.StatusCode).To(BeNumerically(">=", http.StatusBadRequest))
				Expect(statusError.StatusCode).To(BeNumerically("<", http.StatusInternalServerError))
				Expect(other.Session().HasToken()).To(BeFalse())
			})
		})
	})

	Context("When submitting malformed input", func() {
		Describe("Given a book with invalid field types", func() {
			It("should reject a non-numeric published year", func() {
				factory.AttemptCreateBookWithInvalidData(ctx)
			})

			It("should reject a null name", func() {
				_, err := client.CreateBookWithRawPayload(ctx, []byte(`{"name": null, "author": "A", "published_year": 2000}`), api.ExpectStatus(http.StatusUnprocessableEntity))
				Expect(err).NotTo(HaveOccurred())
			})

			It("should reject a book with no author", func() {
				payload := api.NewBookPayload().Build()
				payload.Author = nil

				body, err := json.Marshal(payload)
				Expect(err).NotTo(HaveOccurred())

				_, err = client.Do(ctx, true, http.MethodPost, client.Endpoints().Books(), body, api.ExpectStatus(http.StatusUnprocessableEntity))
				Expect(err).NotTo(HaveOccurred())
			})
		})

		Describe("Given encoding and Unicode issues", func() {
			It("should handle Unicode characters properly", func() {
				book := factory.CreateTrackedBook(ctx, tracker, api.NewBookPayload().WithAuthor("Фёдор Достоевский").Build())

				Expect(*book.Author).To(Equal("Фёдор Достоевский"))
			})
		})
	})
})
