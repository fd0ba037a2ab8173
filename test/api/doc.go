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

// Package api provides integration test utilities for the book API.
//
// # Separate Client Implementation
//
// This package maintains its own HTTP client (APIClient) rather than a
// generated one.  Any legitimate change to the API must have a compensating
// change here, which makes API evolution explicit and reviewable.  Every
// response is also checked against the published OpenAPI document so
// drift in either direction is caught.
//
// The client adds features tailored for integration testing:
//   - W3C trace context propagation for request correlation
//   - Detailed error logging with trace IDs for debugging
//   - An explicit Session per client holding the bearer token
//   - Direct access to HTTP status codes and response bodies
//
// # Workflows
//
// BookFactory builds asserted workflows (create and verify, update and
// verify, and so on) on top of the client, and BookTracker records what
// they create so suites can tear it down.
//
// # Stand-in Service
//
// When API_BASE_URL is not set the suites run against an in-process
// stand-in service, see StartStubServer.
package api
