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

package api

import (
	"context"
	"fmt"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"

	"github.com/nscaledev/book-api-tests/pkg/server"

	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// StartStubServer runs the stand-in book service in process, logging to
// the Ginkgo writer.  Callers must Close the returned server.
func StartStubServer(ctx context.Context, debug bool) (*httptest.Server, error) {
	logger := zap.New(zap.WriteTo(ginkgo.GinkgoWriter), zap.UseDevMode(debug))

	ctx = log.IntoContext(ctx, logger.WithName("book-api-stub"))

	s := &server.Server{}

	handler, err := s.Handler(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating stand-in service: %w", err)
	}

	ts := httptest.NewServer(handler)

	ginkgo.GinkgoWriter.Printf("Stand-in book service listening on %s\n", ts.URL)

	return ts, nil
}
