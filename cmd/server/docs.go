// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

// Package main provides the Anisette HTTP server
//
// Anisette API provides anime catalog browsing, statistics, and
// content-based recommendations backed by a multi-source metadata
// warehouse.
//
// @title Anisette API
// @version 1.0
// @description Anime metadata aggregation and recommendation service
// @description
// @description ## Features
// @description
// @description - **Multi-Source Aggregation**: AniList GraphQL extraction with rate limiting and page caching
// @description - **Entity Resolution**: Cross-source deduplication via fuzzy title matching (token-set similarity)
// @description - **Content-Based Recommendations**: TF-IDF cosine similarity over genres, tags, studios, and synopsis
// @description - **Series Awareness**: Sequels and side stories of the seed are filtered from recommendations
// @description - **Catalog Search**: Substring title search with popularity ranking
// @description - **Pipeline Control**: Manual refresh trigger and scheduled runs with status reporting
// @description
// @description ## Authentication
// @description
// @description Authentication mode is configured via AUTH_MODE (none, basic, jwt).
// @description In jwt mode, use `/api/v1/auth/login` to obtain a token, which is set as an HTTP-only cookie and accepted as a Bearer token.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address.
// @description Rate limit headers are included in responses: `X-RateLimit-Limit`, `X-RateLimit-Remaining`, `X-RateLimit-Reset`.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message",
// @description     "details": {}
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-08-25T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/anisette/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:3939
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in cookie
// @name token
// @description JWT token stored in HTTP-only cookie. Obtain via /api/v1/auth/login endpoint.
//
// @tag.name Core
// @tag.description Core API endpoints for liveness, readiness, and detailed component health
//
// @tag.name Auth
// @tag.description Authentication and session management endpoints
//
// @tag.name Recommendations
// @tag.description Content-based recommendation queries from the similarity index
//
// @tag.name Catalog
// @tag.description Catalog browsing, search, and per-title detail endpoints
//
// @tag.name Statistics
// @tag.description Catalog statistics and deduplication quality metrics
//
// @tag.name Pipeline
// @tag.description Pipeline refresh trigger and run status (resource intensive, strictly rate limited)
package main
