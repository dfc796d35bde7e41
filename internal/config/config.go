// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package config

import (
	"time"
)

// Config holds all application configuration loaded from environment variables and config files.
// Provides centralized configuration management for all application components including
// the AniList extraction client, database, deduplication, similarity, recommendations,
// pipeline scheduling, server, API, security, and logging.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Configuration Categories:
//
//  1. Data Sources:
//     - AniList: GraphQL extraction client (rate limits, paging, caching)
//
//  2. Core Engine:
//     - Dedup: Fuzzy-match threshold for cross-source entity resolution
//     - Similarity: TF-IDF vectorizer and similarity index bounds
//     - Recommend: Query-layer limits and over-fetch factors
//     - Pipeline: Scheduled aggregation runs
//
//  3. Infrastructure:
//     - Database: DuckDB configuration (path, memory, threads)
//     - Server: HTTP server configuration (port, host, timeout)
//     - NATS: Pipeline event publishing with Watermill/NATS JetStream (optional)
//
//  4. API & Security:
//     - API: Pagination and response limits
//     - Security: Authentication, rate limiting, CORS
//
//  5. Observability:
//     - Logging: Log levels and output formats
//
// Example - Load configuration from environment:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	// cfg.AniList.URL, cfg.Database.Path, etc. are now populated
//
// Validation:
// The Load() function validates all fields and returns an error if:
//   - Values are out of range (DEDUP_THRESHOLD outside [0,1], invalid port)
//   - Authentication is enabled but credentials are incomplete
//   - Secrets contain placeholder values
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access from multiple goroutines.
type Config struct {
	AniList    AniListConfig    `koanf:"anilist"`
	Database   DatabaseConfig   `koanf:"database"`
	Dedup      DedupConfig      `koanf:"dedup"`
	Similarity SimilarityConfig `koanf:"similarity"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Pipeline   PipelineConfig   `koanf:"pipeline"`
	NATS       NATSConfig       `koanf:"nats"` // Optional: pipeline event publishing (build tag nats)
	Server     ServerConfig     `koanf:"server"`
	API        APIConfig        `koanf:"api"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// AniListConfig holds AniList GraphQL API client settings.
// AniList is the primary metadata source. The client paginates the media
// catalog ordered by popularity and respects AniList's documented rate
// budget of 90 requests per minute.
//
// Environment Variables:
//   - ANILIST_ENABLED: Enable AniList extraction (default: true)
//   - ANILIST_URL: GraphQL endpoint (default: https://graphql.anilist.co)
//   - ANILIST_RATE_LIMIT: Requests per minute budget (default: 90)
//   - ANILIST_PAGE_SIZE: Media entries per page, AniList caps at 50 (default: 50)
//   - ANILIST_MAX_RETRIES: Retry attempts for transient failures (default: 3)
//   - ANILIST_RETRY_DELAY: Base delay between retries (default: 5s)
//   - ANILIST_TIMEOUT: HTTP request timeout (default: 30s)
//   - ANILIST_CACHE_ENABLED: Cache fetched pages in BadgerDB (default: false)
//   - ANILIST_CACHE_DIR: BadgerDB directory for the page cache (default: /data/anilist-cache)
//   - ANILIST_CACHE_TTL: Cached page lifetime (default: 24h)
type AniListConfig struct {
	Enabled      bool          `koanf:"enabled"`
	URL          string        `koanf:"url" validate:"omitempty,url"`
	RateLimit    int           `koanf:"rate_limit" validate:"gte=1,lte=600"`
	PageSize     int           `koanf:"page_size" validate:"gte=1,lte=50"`
	MaxRetries   int           `koanf:"max_retries" validate:"gte=0,lte=10"`
	RetryDelay   time.Duration `koanf:"retry_delay"`
	Timeout      time.Duration `koanf:"timeout"`
	CacheEnabled bool          `koanf:"cache_enabled"`
	CacheDir     string        `koanf:"cache_dir"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // Number of DuckDB threads (0 = use NumCPU)
}

// DedupConfig holds cross-source entity resolution settings.
//
// Environment Variables:
//   - DEDUP_THRESHOLD: Minimum fuzzy title similarity in [0,1] for two
//     records to be considered the same anime (default: 0.85)
type DedupConfig struct {
	// Threshold is the minimum combined fuzzy-match score for a candidate
	// record to join an existing canonical entity. Raising it trades recall
	// for precision: sequels like "Title 2" stop merging into "Title" around
	// 0.9, while OVAs with subtitle suffixes stop matching around 0.95.
	Threshold float64 `koanf:"threshold" validate:"gte=0,lte=1"`
}

// SimilarityConfig holds TF-IDF vectorizer and similarity index settings.
//
// Environment Variables:
//   - SIMILARITY_MAX_FEATURES: Vocabulary cap, most frequent terms kept (default: 1000)
//   - SIMILARITY_MAX_DF: Drop terms present in more than this fraction of documents (default: 0.8)
//   - SIMILARITY_MIN_DF: Drop terms present in fewer than this many documents (default: 1)
//   - SIMILARITY_BIGRAMS: Add word bigrams to the vocabulary (default: false)
//   - SIMILARITY_MIN_SCORE: Floor below which edges are not persisted (default: 0.1)
//   - SIMILARITY_TOP_N: Edges persisted per anime (default: 50)
type SimilarityConfig struct {
	MaxFeatures   int     `koanf:"max_features" validate:"gte=1"`
	MaxDF         float64 `koanf:"max_df" validate:"gt=0,lte=1"`
	MinDF         int     `koanf:"min_df" validate:"gte=1"`
	Bigrams       bool    `koanf:"bigrams"`
	MinSimilarity float64 `koanf:"min_similarity" validate:"gte=0,lte=1"`
	TopN          int     `koanf:"top_n" validate:"gte=1"`
}

// RecommendConfig holds recommendation query-layer settings.
//
// Environment Variables:
//   - RECOMMEND_DEFAULT_LIMIT: Results returned when the caller omits a limit (default: 10)
//   - RECOMMEND_MAX_LIMIT: Hard cap on requested result counts (default: 100)
//   - RECOMMEND_OVERFETCH: Single-seed candidate multiplier so series
//     filtering still fills the requested count (default: 3)
//   - RECOMMEND_MULTI_SEED_FETCH: Candidates fetched per seed in multi-seed
//     queries before score aggregation (default: 100)
type RecommendConfig struct {
	DefaultLimit    int `koanf:"default_limit" validate:"gte=1"`
	MaxLimit        int `koanf:"max_limit" validate:"gte=1"`
	OverFetchFactor int `koanf:"over_fetch_factor" validate:"gte=1"`
	MultiSeedFetch  int `koanf:"multi_seed_fetch" validate:"gte=1"`
}

// PipelineConfig holds aggregation pipeline scheduling settings.
// A pipeline run fetches source catalogs, deduplicates them into canonical
// entities, loads the warehouse, and rebuilds the similarity index.
//
// Environment Variables:
//   - PIPELINE_ENABLED: Run the pipeline on a schedule (default: true)
//   - PIPELINE_RUN_ON_STARTUP: Trigger a run immediately at boot (default: false)
//   - PIPELINE_INTERVAL: Time between scheduled runs (default: 24h)
//   - PIPELINE_MAX_PAGES: Source pages fetched per run, 0 = entire catalog (default: 0)
type PipelineConfig struct {
	Enabled      bool          `koanf:"enabled"`
	RunOnStartup bool          `koanf:"run_on_startup"`
	Interval     time.Duration `koanf:"interval"`
	MaxPages     int           `koanf:"max_pages" validate:"gte=0"`
}

// NATSConfig holds pipeline event publishing settings.
// Events are published through Watermill/NATS JetStream when the binary is
// built with the nats tag; without it a no-op publisher is used and these
// settings are ignored.
//
// Environment Variables:
//   - NATS_ENABLED: Enable event publishing (default: false)
//   - NATS_URL: NATS server URL (default: nats://127.0.0.1:4222)
//   - NATS_EMBEDDED: Run an embedded NATS server (default: true)
//   - NATS_STORE_DIR: JetStream storage directory (default: /data/nats/jetstream)
//   - NATS_MAX_MEMORY: JetStream memory limit in bytes (default: 1GB)
//   - NATS_MAX_STORE: JetStream disk limit in bytes (default: 10GB)
//   - NATS_RETENTION_DAYS: Event stream retention (default: 7)
type NATSConfig struct {
	Enabled             bool   `koanf:"enabled"`
	URL                 string `koanf:"url"`
	EmbeddedServer      bool   `koanf:"embedded_server"`
	StoreDir            string `koanf:"store_dir"`
	MaxMemory           int64  `koanf:"max_memory"`
	MaxStore            int64  `koanf:"max_store"`
	StreamRetentionDays int    `koanf:"stream_retention_days" validate:"gte=1"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port" validate:"gte=1,lte=65535"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // Environment mode: "development", "staging", "production" (default: "development")
}

// APIConfig holds API pagination and response settings
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size" validate:"gte=1"`
	MaxPageSize     int `koanf:"max_page_size" validate:"gte=1"`
}

// SecurityConfig holds authentication and authorization settings.
//
// Environment Variables:
//   - AUTH_MODE: none, basic, or jwt (default: none)
//   - JWT_SECRET: HMAC signing secret, 32+ chars (required for jwt mode)
//   - SESSION_TIMEOUT: JWT token lifetime (default: 24h)
//   - ADMIN_USERNAME: Admin account name (required for basic and jwt modes)
//   - ADMIN_PASSWORD: Admin account password (required for basic and jwt modes)
//   - RATE_LIMIT_REQUESTS: Requests allowed per window (default: 100)
//   - RATE_LIMIT_WINDOW: Rate limit window (default: 1m)
//   - DISABLE_RATE_LIMIT: Turn off rate limiting entirely (default: false)
//   - CORS_ORIGINS: Comma-separated allowed origins (default: *)
//   - TRUSTED_PROXIES: Comma-separated proxy CIDRs for RealIP (default: none)
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	AdminUsername     string        `koanf:"admin_username"`
	AdminPassword     string        `koanf:"admin_password"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// JSON is recommended for production (structured, machine-parseable).
	// Console is human-readable for development.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Adds slight performance overhead.
	// Default: false
	Caller bool `koanf:"caller"`
}

// Load reads configuration with the following precedence:
//  1. Built-in defaults
//  2. Config file (config.yaml if exists, or path specified in ANISETTE_CONFIG env var)
//  3. Environment variables
//
// This function uses Koanf v2 for flexible, layered configuration management.
//
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
