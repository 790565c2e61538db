// Copyright (c) 2025, The craftgraph Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server provides the HTTP server shared by the craftgraph daemon.
//
// The server owns the process lifecycle: it listens, exposes the system
// endpoints and wraps every API handler in a middleware chain. Domain
// handlers are registered with WithHandler and live in their own packages.
//
// # Endpoints
//
//	GET /health   liveness, always 200
//	GET /ready    200 once serving and the readiness check passes, else 503
//	GET /metrics  Prometheus metrics
//	GET /         server name, version and the registered routes
//
// # Middleware
//
// API handlers run behind, outermost first: metrics, API version
// negotiation (Accept: application/vnd.craftgraph.v1+json), request ID
// (X-Request-Id, generated when absent or not a UUID), panic recovery,
// token-bucket rate limiting (golang.org/x/time/rate) and debug logging.
//
// # Errors
//
// Errors are written as ErrorResponse JSON. WriteErrorFromErr derives the
// HTTP status and retryable flag from the error code of a
// pkg/errors.StructuredError:
//
//	INVALID_REQUEST      400
//	NOT_FOUND            404
//	METHOD_NOT_ALLOWED   405
//	MALFORMED_ENTRY      422
//	RATE_LIMIT_EXCEEDED  429
//	SERVICE_UNAVAILABLE  503
//	TIMEOUT              504
//	anything else        500
//
// # Usage
//
//	s := server.New(
//	    server.WithName("craftd"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/recipes": h.HandleRecipes,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// PORT and SHUTDOWN_TIMEOUT_SECONDS override the listen port and graceful
// shutdown budget.
package server
