// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

/*
Package api provides the HTTP layer for the recommendation service.

Routing uses chi with production middleware from its ecosystem:
go-chi/cors for CORS, go-chi/httprate for per-endpoint rate limit
tiers, and chi's RealIP/Recoverer. Authentication is enforced through
internal/auth; health, metrics, and swagger endpoints stay open.

Handler methods are split across files by concern:

  - handlers.go: Handler struct and constructor
  - handlers_helpers.go: response, validation, and parameter helpers
  - handlers_health.go: liveness, readiness, and full health
  - handlers_auth.go: login (token issuance)
  - handlers_anime.go: catalog queries (top, popular, search, detail)
  - handlers_recommend.go: single- and multi-seed recommendations
  - handlers_stats.go: catalog and deduplication statistics
  - handlers_pipeline.go: refresh trigger and run status

Every endpoint responds with the models.APIResponse envelope; list
endpoints carry query timing in the metadata block.
*/
package api
