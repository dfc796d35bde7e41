// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

/*
Package middleware provides HTTP middleware components for the application.

This package implements infrastructure middleware for compression, request ID
tracking, and Prometheus metrics integration. These components work alongside
the authentication middleware and the Chi middleware factories in internal/api
to form the complete request processing stack.

Key Components:

  - Compression: Gzip compression for JSON responses
  - Request ID: UUID-based request tracking for distributed tracing
  - Prometheus Metrics: HTTP request/response instrumentation

Usage Example - Compression:

	import "github.com/tomtom215/anisette/internal/middleware"

	// Wrap handler with gzip compression
	http.HandleFunc("/api/v1/anime/top",
	    middleware.Compression(handler),
	)

	// Accept-Encoding: gzip header is required for compression to apply

Usage Example - Request ID:

	// Request ID middleware
	http.HandleFunc("/api/v1/recommendations",
	    middleware.RequestID(handler),
	)

	// Access request ID in handler
	func handler(w http.ResponseWriter, r *http.Request) {
	    requestID := middleware.GetRequestID(r.Context())
	    log.Printf("[%s] Processing request", requestID)
	}

Thread Safety:

All middleware components are thread-safe:
  - Compression pools gzip writers with sync.Pool
  - Request ID uses context.Context (immutable)
  - Prometheus metrics use atomic operations

See Also:

  - internal/auth: Authentication middleware
  - internal/api: Chi router and middleware factories
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
