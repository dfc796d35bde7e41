// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package api

import (
	"time"

	"github.com/tomtom215/anisette/internal/auth"
	"github.com/tomtom215/anisette/internal/cache"
	"github.com/tomtom215/anisette/internal/config"
	"github.com/tomtom215/anisette/internal/database"
	"github.com/tomtom215/anisette/internal/logging"
	"github.com/tomtom215/anisette/internal/pipeline"
	"github.com/tomtom215/anisette/internal/recommend"
)

// Version is the service version reported by the health endpoint.
// Overridden at build time via -ldflags "-X ...api.Version=v1.2.3".
var Version = "dev"

// statsCacheTTL bounds staleness of the cached statistics payloads.
// The catalog only changes when a pipeline run completes, so a short
// TTL keeps the stats endpoints cheap without an invalidation protocol.
const statsCacheTTL = 5 * time.Minute

// Handler contains dependencies for the API handlers.
type Handler struct {
	db        *database.DB
	query     *recommend.Query
	pipeline  *pipeline.Pipeline
	config    *config.Config
	authMw    *auth.Middleware
	cache     *cache.Cache
	startTime time.Time
}

// NewHandler creates the API handler. The recommendation query engine
// and pipeline may be nil in partial deployments (read-only replicas);
// the affected endpoints then answer 503.
func NewHandler(db *database.DB, query *recommend.Query, p *pipeline.Pipeline, cfg *config.Config, authMw *auth.Middleware) *Handler {
	return &Handler{
		db:        db,
		query:     query,
		pipeline:  p,
		config:    cfg,
		authMw:    authMw,
		cache:     cache.New(statsCacheTTL),
		startTime: time.Now(),
	}
}

// ClearCache invalidates cached statistics payloads. Called after each
// completed pipeline run so clients see fresh counts immediately.
func (h *Handler) ClearCache() {
	if h.cache != nil {
		h.cache.Clear()
		logging.Debug().Msg("Statistics cache cleared")
	}
}
