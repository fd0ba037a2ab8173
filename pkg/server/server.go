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

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"

	"github.com/nscaledev/book-api-tests/pkg/server/handler"
	"github.com/nscaledev/book-api-tests/pkg/server/store"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Server is the stand-in book service.
type Server struct {
	Options Options

	// Store backs the API, a fresh in-memory store is used when not set.
	Store store.Store
}

// logging attaches a request scoped logger to the context and records
// the outcome of every request.
func logging(logger logr.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			l := logger.WithValues("method", r.Method, "path", r.URL.Path, "requestID", middleware.GetReqID(r.Context()))

			ctx := log.IntoContext(r.Context(), l)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(ctx))

			l.V(1).Info("request served", "status", ww.Status(), "duration", time.Since(start))
		})
	}
}

// Handler returns the fully wired HTTP handler.
func (s *Server) Handler(ctx context.Context) (http.Handler, error) {
	if s.Store == nil {
		memory := store.NewMemory()

		if s.Options.SeedFile != "" {
			seed, err := store.LoadSeed(s.Options.SeedFile)
			if err != nil {
				return nil, err
			}

			if err := memory.Seed(ctx, seed); err != nil {
				return nil, err
			}
		}

		s.Store = memory
	}

	h, err := handler.New(s.Store)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(logging(log.FromContext(ctx).WithName("http")))
	router.Use(middleware.Recoverer)

	return handler.HandlerFromMux(h, h.Authenticate, router), nil
}

// Run serves the API until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	log := log.FromContext(ctx)

	h, err := s.Handler(ctx)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              s.Options.ListenAddress,
		ReadTimeout:       s.Options.ReadTimeout,
		ReadHeaderTimeout: s.Options.ReadHeaderTimeout,
		WriteTimeout:      s.Options.WriteTimeout,
		Handler:           h,
	}

	errs := make(chan error, 1)

	go func() {
		log.Info("listening", "address", s.Options.ListenAddress)

		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.Options.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	log.Info("server stopped")

	return nil
}
