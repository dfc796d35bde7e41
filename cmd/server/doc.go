// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

/*
Package main is the entry point for the Anisette server application.

Anisette is a self-hosted anime metadata aggregation and recommendation
service. It extracts the AniList catalog, resolves entries from multiple
sources into canonical entities with fuzzy title matching, loads them
into a DuckDB warehouse, and serves content-based recommendations from a
TF-IDF cosine-similarity index.

# Application Architecture

The server implements a layered architecture with Suture v4 process supervision:

	RootSupervisor ("anisette")
	├── DataSupervisor ("data-layer")
	│   └── Pipeline Scheduler (periodic catalog refresh)
	├── MessagingSupervisor ("messaging-layer")
	│   └── NATS components (optional, -tags nats)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (Chi router, REST API)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB warehouse with schema migrations
 4. AniList Client: GraphQL extraction with rate limiting and circuit breaker
 5. Pipeline: fetch, deduplicate, load, similarity-rebuild stages
 6. Authentication: JWT, Basic Auth, or no-auth mode
 7. Supervisor Tree: Suture v4 process supervision
 8. HTTP Server: Chi router with middleware stack

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Server
	HTTP_PORT=3939               # HTTP server port
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Authentication (choose one mode)
	AUTH_MODE=none               # jwt, basic, or none
	JWT_SECRET=<32+ chars>       # Required for JWT mode
	ADMIN_USERNAME=admin
	ADMIN_PASSWORD=<password>

	# AniList source (enabled by default, no credentials needed)
	ANILIST_ENABLED=true
	ANILIST_RATE_LIMIT=90        # Requests per minute budget
	ANILIST_CACHE_ENABLED=false  # BadgerDB page cache for re-runs

	# Pipeline scheduling
	PIPELINE_ENABLED=true
	PIPELINE_RUN_ON_STARTUP=false
	PIPELINE_INTERVAL=24h
	PIPELINE_MAX_PAGES=20        # 50 entries per page

	# Matching and similarity tuning
	DEDUP_THRESHOLD=0.85         # Fuzzy title match floor
	SIMILARITY_MAX_FEATURES=1000 # TF-IDF vocabulary cap
	SIMILARITY_TOP_N=50          # Stored neighbors per anime

See .env.example for complete configuration reference.

# Build Tags

Optional build tags enable additional functionality:

	go build ./cmd/server              # Standard build
	go build -tags nats ./cmd/server   # Enable NATS JetStream events

Build tags affect supervisor tree composition:
  - nats: Adds NATSComponentsService to the messaging layer; pipeline
    run starts, completions, and similarity rebuilds are published to
    the ANISETTE_EVENTS stream for external consumers

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:

 1. Stops accepting new HTTP connections
 2. Waits for in-flight requests (10s timeout)
 3. Lets an active pipeline run finish its current stage
 4. Flushes the event publisher and closes NATS components
 5. Closes the warehouse connection
 6. Reports any services that failed to stop

# Usage Examples

Development (no auth):

	export AUTH_MODE=none
	export PIPELINE_ENABLED=false
	go run ./cmd/server

First run with an immediate catalog refresh:

	export AUTH_MODE=none
	export PIPELINE_RUN_ON_STARTUP=true
	export PIPELINE_MAX_PAGES=20
	go run ./cmd/server

Production (JWT):

	export AUTH_MODE=jwt
	export JWT_SECRET=$(openssl rand -base64 32)
	export ADMIN_USERNAME=admin ADMIN_PASSWORD=secure-password
	./anisette

Docker:

	docker run -d \
	  -e AUTH_MODE=none \
	  -e PIPELINE_RUN_ON_STARTUP=true \
	  -v anisette-data:/data \
	  -p 3939:3939 \
	  ghcr.io/tomtom215/anisette

# Port 3939

The default port 3939 reads "san-kyu san-kyu" in Japanese wordplay, the
fandom's number for "thank you".

# API Documentation

Swagger documentation is available at /swagger/index.html when the server
is running. The API is organized into categories:

  - Core: Liveness, readiness, and detailed component health
  - Auth: Login endpoint issuing JWT tokens
  - Recommendations: Single-seed and multi-seed similarity queries
  - Catalog: Browsing, search, detail, and similar-title lookups
  - Statistics: Catalog counts, genre distribution, dedup collision stats
  - Pipeline: Manual refresh trigger and run status
*/
package main
