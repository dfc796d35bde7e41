// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

// Package auth provides authentication middleware for the HTTP API.
//
// Three modes are supported, selected by AUTH_MODE:
//
//   - none: every request passes through (default, suitable behind a
//     trusted reverse proxy or for local use)
//   - basic: HTTP Basic Authentication against the configured admin
//     account, verified per request with a bcrypt hash
//   - jwt: stateless HS256 bearer tokens issued by POST /auth/login
//     and validated on every protected request
//
// All credential comparisons are timing-safe. Health, metrics, and
// documentation endpoints are exempted at the router, not here.
package auth
