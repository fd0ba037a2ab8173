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
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/book-api-tests/test/api"
)

var _ = Describe("Boundary Value Testing", func() {
	Context("When creating books at the edges of the generated ranges", func() {
		DescribeTable("should round trip the published year",
			func(year int) {
				book := factory.CreateTrackedBook(ctx, tracker, api.NewBookPayload().WithPublishedYear(year).Build())

				Expect(*book.PublishedYear).To(Equal(year))
			},
			Entry("earliest year", api.MinPublishedYear),
			Entry("latest year", api.MaxPublishedYear),
		)
	})

	Context("When creating books with unusual titles", func() {
		DescribeTable("should round trip the title",
			func(name string) {
				book := factory.CreateTrackedBook(ctx, tracker, api.NewBookPayload().WithName(name).Build())

				Expect(*book.Name).To(Equal(name))
			},
			Entry("a long title", strings.Repeat("Long Title ", 25)),
			Entry("a unicode title", "Война и мир 戦争と平和 📚"),
			Entry("a title with quotes", `The "Quoted" Book`),
		)

		It("should accept a book without a summary", func() {
			book := factory.CreateTrackedBook(ctx, tracker, api.NewBookPayload().WithoutSummary().Build())

			Expect(book.BookSummary).To(BeNil())
		})
	})
})
