// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

// Package main is the entry point for the Anisette server application.
//
// Anisette is a self-hosted anime metadata aggregation and recommendation
// service. It extracts the AniList catalog over GraphQL, resolves entries
// into canonical entities with fuzzy title matching, loads them into a
// DuckDB warehouse, and serves content-based recommendations from a
// TF-IDF similarity index.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from environment variables and config files (Koanf v2)
//  2. Database: Initialize the DuckDB warehouse and run schema migrations
//  3. AniList Client: GraphQL extraction with rate limiting and circuit breaker
//  4. Pipeline: Fetch, deduplicate, load, and similarity-rebuild stages
//  5. Authentication: Configure JWT, Basic Auth, or no-auth mode
//  6. NATS (optional): Pipeline event publishing with JetStream persistence
//  7. HTTP Server: REST API with Swagger documentation
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (see .env.example)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// The AniList source is enabled by default and needs no credentials:
//   - ANILIST_ENABLED=true (default)
//   - PIPELINE_MAX_PAGES: Pages fetched per refresh, 50 entries each (default: 20)
//   - PIPELINE_INTERVAL: Time between scheduled refreshes (default: 24h)
//
// For JWT authentication:
//   - JWT_SECRET: 32+ character secret for token signing
//   - ADMIN_USERNAME: Admin username
//   - ADMIN_PASSWORD: Admin password (8+ characters)
//
// # Build Tags
//
// Optional build tags enable additional functionality:
//
//	go build -tags "nats" ./cmd/server  # Enable NATS JetStream event publishing
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//   - Lets an active pipeline run finish its current stage
//   - Shuts down NATS components if enabled
//   - Closes the warehouse connection
//
// # Example Usage
//
// Development (no auth, seeded catalog only):
//
//	export AUTH_MODE=none  # For development
//	export PIPELINE_ENABLED=false
//	./anisette
//
// First refresh on startup:
//
//	export AUTH_MODE=none
//	export PIPELINE_RUN_ON_STARTUP=true
//	export PIPELINE_MAX_PAGES=20
//	./anisette
//
// Production with JWT:
//
//	export JWT_SECRET=$(openssl rand -base64 32)
//	export ADMIN_USERNAME=admin
//	export ADMIN_PASSWORD=secure-password
//	./anisette
//
// Docker:
//
//	docker run -d \
//	  -e AUTH_MODE=none \
//	  -e PIPELINE_RUN_ON_STARTUP=true \
//	  -v anisette-data:/data \
//	  -p 3939:3939 \
//	  ghcr.io/tomtom215/anisette
//
// # Port 3939
//
// The default port 3939 reads "san-kyu san-kyu" in Japanese wordplay,
// the fandom's number for "thank you".
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/anisette/docs" // Import generated swagger docs
	"github.com/tomtom215/anisette/internal/anilist"
	"github.com/tomtom215/anisette/internal/api"
	"github.com/tomtom215/anisette/internal/auth"
	"github.com/tomtom215/anisette/internal/config"
	"github.com/tomtom215/anisette/internal/database"
	"github.com/tomtom215/anisette/internal/dedup"
	"github.com/tomtom215/anisette/internal/logging"
	"github.com/tomtom215/anisette/internal/pipeline"
	"github.com/tomtom215/anisette/internal/recommend"
	"github.com/tomtom215/anisette/internal/similarity"
	"github.com/tomtom215/anisette/internal/supervisor"
	"github.com/tomtom215/anisette/internal/supervisor/services"
)

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Anisette with supervisor tree")

	// Log configuration status - show AniList status based on Enabled flag
	if cfg.AniList.Enabled {
		logging.Info().
			Str("anilist_url", cfg.AniList.URL).
			Str("db_path", cfg.Database.Path).
			Str("auth_mode", cfg.Security.AuthMode).
			Msg("Configuration loaded")
	} else {
		logging.Info().
			Bool("anilist_enabled", false).
			Str("db_path", cfg.Database.Path).
			Str("auth_mode", cfg.Security.AuthMode).
			Msg("Configuration loaded (catalog-only mode)")
	}

	// Initialize the DuckDB warehouse
	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create structured logger for supervisor using our slog adapter
	// This bridges zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	// Create supervisor tree
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Initialize the aggregation pipeline when the AniList source is
	// enabled. Without a source there is nothing to refresh: the server
	// keeps answering from whatever the warehouse already holds, and the
	// pipeline endpoints report 503.
	var pipe *pipeline.Pipeline
	if cfg.AniList.Enabled {
		// AniList client with rate limiting, retries, and an optional
		// BadgerDB page cache for re-runs during development
		client := anilist.NewClient(&cfg.AniList)
		defer func() {
			if err := client.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing AniList client")
			}
		}()
		logging.Info().
			Str("url", cfg.AniList.URL).
			Int("rate_limit", cfg.AniList.RateLimit).
			Bool("page_cache", cfg.AniList.CacheEnabled).
			Msg("AniList client initialized")

		// Cross-source entity resolution with fuzzy title matching
		dd := dedup.New(dedup.Config{Threshold: cfg.Dedup.Threshold})

		// TF-IDF similarity engine writing edges to the warehouse
		engine := similarity.New(db, similarity.Config{
			MaxFeatures:   cfg.Similarity.MaxFeatures,
			MinDF:         cfg.Similarity.MinDF,
			MaxDF:         cfg.Similarity.MaxDF,
			Bigrams:       cfg.Similarity.Bigrams,
			MinSimilarity: cfg.Similarity.MinSimilarity,
			TopN:          cfg.Similarity.TopN,
		})

		pipe = pipeline.New(cfg.Pipeline, client, dd, db, engine)
	} else {
		logging.Info().Msg("AniList extraction disabled - serving the existing catalog only")
	}

	// Recommendation query engine reads the similarity index directly;
	// it works with or without a pipeline as long as the warehouse holds
	// a catalog
	query := recommend.New(db, recommend.Config{
		DefaultLimit:    cfg.Recommend.DefaultLimit,
		MaxLimit:        cfg.Recommend.MaxLimit,
		OverFetchFactor: cfg.Recommend.OverFetchFactor,
		MultiSeedFetch:  cfg.Recommend.MultiSeedFetch,
	})

	// Authentication middleware builds its own managers for the
	// configured mode (none, basic, jwt)
	authMw, err := auth.NewMiddleware(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authentication")
	}

	if cfg.Security.AuthMode == "basic" {
		logging.Warn().Msg("Basic Auth transmits credentials with each request. Use HTTPS in production!")
	} else if cfg.Security.AuthMode == "none" || cfg.Security.AuthMode == "" {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: Authentication is DISABLED (AUTH_MODE=none)")
		logging.Warn().Msg("  ")
		logging.Warn().Msg("  All endpoints are publicly accessible without authentication!")
		logging.Warn().Msg("  This mode should ONLY be used for:")
		logging.Warn().Msg("    - Local development")
		logging.Warn().Msg("    - Completely isolated private networks")
		logging.Warn().Msg("    - CI/CD testing environments")
		logging.Warn().Msg("  ")
		logging.Warn().Msg("  NEVER use AUTH_MODE=none in production or on public networks!")
		logging.Warn().Msg("============================================================")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
		logging.Warn().Msg("This should only be used for CI/CD testing!")
	}

	// Warn about wildcard CORS when authentication is enabled
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: CORS is configured with wildcard origin (CORS_ORIGINS=*)")
		logging.Warn().Msg("  ")
		logging.Warn().Msg("  This allows ANY website to make cross-origin requests to your API.")
		logging.Warn().Msg("  With authentication enabled, this creates a security vulnerability:")
		logging.Warn().Msg("  attackers can steal credentials via malicious websites.")
		logging.Warn().Msg("  ")
		logging.Warn().Msg("  RECOMMENDED: Set specific origins in production:")
		logging.Warn().Msg("    CORS_ORIGINS=https://yourdomain.com,https://app.yourdomain.com")
		logging.Warn().Msg("============================================================")
	}

	handler := api.NewHandler(db, query, pipe, cfg, authMw)

	// Initialize NATS event publishing (optional - requires build with -tags nats)
	// Wires the JetStream publisher into the pipeline so every run start,
	// completion, and similarity rebuild is announced to external consumers
	natsComponents, err := InitNATS(cfg, pipe)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize NATS")
	}

	// Add NATS to supervisor tree (if enabled)
	// Note: NATS components are started/managed by supervisor, not manually
	AddNATSToSupervisor(tree, natsComponents)

	router := api.NewRouter(handler, authMw, &cfg.Security)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Data layer services
	if pipe != nil && cfg.Pipeline.Enabled {
		scheduler := services.NewPipelineSchedulerService(
			&refreshRunner{pipeline: pipe, handler: handler},
			services.PipelineSchedulerConfig{
				RunOnStartup: cfg.Pipeline.RunOnStartup,
				Interval:     cfg.Pipeline.Interval,
			},
			logging.Logger(),
		)
		tree.AddDataService(scheduler)
		logging.Info().
			Dur("interval", cfg.Pipeline.Interval).
			Bool("run_on_startup", cfg.Pipeline.RunOnStartup).
			Msg("Pipeline scheduler added to supervisor tree")
	} else {
		logging.Info().Msg("Pipeline scheduling disabled - refreshes via POST /api/v1/pipeline/run only")
	}

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// refreshRunner adapts the pipeline for the supervisor scheduler. It
// clears the API statistics cache after each successful scheduled run,
// matching what the manual trigger endpoint does, so clients see fresh
// counts without waiting out the cache TTL.
type refreshRunner struct {
	pipeline *pipeline.Pipeline
	handler  *api.Handler
}

func (r *refreshRunner) Run(ctx context.Context) (*pipeline.RunReport, error) {
	report, err := r.pipeline.Run(ctx)
	if err != nil {
		return nil, err
	}
	r.handler.ClearCache()
	return report, nil
}
