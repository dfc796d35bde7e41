// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	// AniList defaults (enabled, public endpoint)
	if cfg.AniList.Enabled != true {
		t.Errorf("AniList.Enabled should be true by default")
	}
	if cfg.AniList.URL != "https://graphql.anilist.co" {
		t.Errorf("AniList.URL = %q, want https://graphql.anilist.co", cfg.AniList.URL)
	}
	if cfg.AniList.RateLimit != 90 {
		t.Errorf("AniList.RateLimit = %d, want 90", cfg.AniList.RateLimit)
	}
	if cfg.AniList.PageSize != 50 {
		t.Errorf("AniList.PageSize = %d, want 50", cfg.AniList.PageSize)
	}
	if cfg.AniList.MaxRetries != 3 {
		t.Errorf("AniList.MaxRetries = %d, want 3", cfg.AniList.MaxRetries)
	}
	if cfg.AniList.Timeout != 30*time.Second {
		t.Errorf("AniList.Timeout = %v, want 30s", cfg.AniList.Timeout)
	}
	if cfg.AniList.CacheEnabled != false {
		t.Errorf("AniList.CacheEnabled should be false by default")
	}

	// Database defaults
	if cfg.Database.Path != "/data/anisette.duckdb" {
		t.Errorf("Database.Path = %q, want /data/anisette.duckdb", cfg.Database.Path)
	}
	if cfg.Database.MaxMemory != "2GB" {
		t.Errorf("Database.MaxMemory = %q, want 2GB", cfg.Database.MaxMemory)
	}

	// Dedup defaults
	if cfg.Dedup.Threshold != 0.85 {
		t.Errorf("Dedup.Threshold = %v, want 0.85", cfg.Dedup.Threshold)
	}

	// Similarity defaults
	if cfg.Similarity.MaxFeatures != 1000 {
		t.Errorf("Similarity.MaxFeatures = %d, want 1000", cfg.Similarity.MaxFeatures)
	}
	if cfg.Similarity.MaxDF != 0.8 {
		t.Errorf("Similarity.MaxDF = %v, want 0.8", cfg.Similarity.MaxDF)
	}
	if cfg.Similarity.MinDF != 1 {
		t.Errorf("Similarity.MinDF = %d, want 1", cfg.Similarity.MinDF)
	}
	if cfg.Similarity.Bigrams != false {
		t.Errorf("Similarity.Bigrams should be false by default")
	}
	if cfg.Similarity.MinSimilarity != 0.1 {
		t.Errorf("Similarity.MinSimilarity = %v, want 0.1", cfg.Similarity.MinSimilarity)
	}
	if cfg.Similarity.TopN != 50 {
		t.Errorf("Similarity.TopN = %d, want 50", cfg.Similarity.TopN)
	}

	// Recommend defaults
	if cfg.Recommend.DefaultLimit != 10 {
		t.Errorf("Recommend.DefaultLimit = %d, want 10", cfg.Recommend.DefaultLimit)
	}
	if cfg.Recommend.MaxLimit != 100 {
		t.Errorf("Recommend.MaxLimit = %d, want 100", cfg.Recommend.MaxLimit)
	}
	if cfg.Recommend.OverFetchFactor != 3 {
		t.Errorf("Recommend.OverFetchFactor = %d, want 3", cfg.Recommend.OverFetchFactor)
	}
	if cfg.Recommend.MultiSeedFetch != 100 {
		t.Errorf("Recommend.MultiSeedFetch = %d, want 100", cfg.Recommend.MultiSeedFetch)
	}

	// Pipeline defaults
	if cfg.Pipeline.Enabled != true {
		t.Errorf("Pipeline.Enabled should be true by default")
	}
	if cfg.Pipeline.Interval != 24*time.Hour {
		t.Errorf("Pipeline.Interval = %v, want 24h", cfg.Pipeline.Interval)
	}
	if cfg.Pipeline.MaxPages != 0 {
		t.Errorf("Pipeline.MaxPages = %d, want 0 (entire catalog)", cfg.Pipeline.MaxPages)
	}

	// NATS defaults (disabled, opt-in)
	if cfg.NATS.Enabled != false {
		t.Errorf("NATS.Enabled should be false by default")
	}
	if cfg.NATS.URL != "nats://127.0.0.1:4222" {
		t.Errorf("NATS.URL = %q, want nats://127.0.0.1:4222", cfg.NATS.URL)
	}
	if cfg.NATS.MaxMemory != 1<<30 {
		t.Errorf("NATS.MaxMemory = %d, want 1GB", cfg.NATS.MaxMemory)
	}

	// Server defaults
	if cfg.Server.Port != 3939 {
		t.Errorf("Server.Port = %d, want 3939", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.Environment != "development" {
		t.Errorf("Server.Environment = %q, want development", cfg.Server.Environment)
	}

	// API defaults
	if cfg.API.DefaultPageSize != 20 {
		t.Errorf("API.DefaultPageSize = %d, want 20", cfg.API.DefaultPageSize)
	}
	if cfg.API.MaxPageSize != 100 {
		t.Errorf("API.MaxPageSize = %d, want 100", cfg.API.MaxPageSize)
	}

	// Security defaults
	if cfg.Security.AuthMode != "none" {
		t.Errorf("Security.AuthMode = %q, want none", cfg.Security.AuthMode)
	}
	if cfg.Security.RateLimitReqs != 100 {
		t.Errorf("Security.RateLimitReqs = %d, want 100", cfg.Security.RateLimitReqs)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// AniList
		{"ANILIST_URL", "anilist.url"},
		{"ANILIST_RATE_LIMIT", "anilist.rate_limit"},
		{"ANILIST_PAGE_SIZE", "anilist.page_size"},
		{"ANILIST_CACHE_ENABLED", "anilist.cache_enabled"},

		// Database
		{"DUCKDB_PATH", "database.path"},
		{"DUCKDB_MAX_MEMORY", "database.max_memory"},
		{"DUCKDB_THREADS", "database.threads"},

		// Dedup
		{"DEDUP_THRESHOLD", "dedup.threshold"},

		// Similarity
		{"SIMILARITY_MAX_FEATURES", "similarity.max_features"},
		{"SIMILARITY_MIN_SCORE", "similarity.min_similarity"},
		{"SIMILARITY_TOP_N", "similarity.top_n"},
		{"SIMILARITY_BIGRAMS", "similarity.bigrams"},

		// Recommend
		{"RECOMMEND_DEFAULT_LIMIT", "recommend.default_limit"},
		{"RECOMMEND_OVERFETCH", "recommend.over_fetch_factor"},

		// Pipeline
		{"PIPELINE_ENABLED", "pipeline.enabled"},
		{"PIPELINE_INTERVAL", "pipeline.interval"},
		{"PIPELINE_MAX_PAGES", "pipeline.max_pages"},

		// NATS
		{"NATS_ENABLED", "nats.enabled"},
		{"NATS_URL", "nats.url"},
		{"NATS_EMBEDDED", "nats.embedded_server"},
		{"NATS_RETENTION_DAYS", "nats.stream_retention_days"},

		// Server
		{"HTTP_PORT", "server.port"},
		{"HTTP_HOST", "server.host"},
		{"HTTP_TIMEOUT", "server.timeout"},
		{"ENVIRONMENT", "server.environment"},

		// Security
		{"AUTH_MODE", "security.auth_mode"},
		{"JWT_SECRET", "security.jwt_secret"},
		{"ADMIN_USERNAME", "security.admin_username"},
		{"RATE_LIMIT_REQUESTS", "security.rate_limit_reqs"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"CORS_ORIGINS", "security.cors_origins"},

		// Logging
		{"LOG_LEVEL", "logging.level"},
		{"LOG_FORMAT", "logging.format"},

		// Unknown (should return empty)
		{"RANDOM_VAR", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := envTransformFunc(tt.input)
			if result != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

// TestFindConfigFile verifies config file discovery
func TestFindConfigFile(t *testing.T) {
	// Create a temporary directory for test files
	tmpDir, err := os.MkdirTemp("", "config_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Save original working directory
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	defer func() {
		if err := os.Chdir(origDir); err != nil {
			t.Errorf("Failed to restore working directory: %v", err)
		}
	}()

	// Change to temp directory
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	t.Run("no config file exists", func(t *testing.T) {
		os.Unsetenv(ConfigPathEnvVar)
		result := findConfigFile()
		if result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "config.yaml")
		if err := os.WriteFile(configPath, []byte("test: true"), 0644); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		defer os.Remove(configPath)

		os.Unsetenv(ConfigPathEnvVar)
		result := findConfigFile()
		if result != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", result)
		}
	})

	t.Run("ANISETTE_CONFIG env var takes precedence", func(t *testing.T) {
		customPath := filepath.Join(tmpDir, "custom_config.yaml")
		if err := os.WriteFile(customPath, []byte("test: true"), 0644); err != nil {
			t.Fatalf("Failed to create custom config file: %v", err)
		}
		defer os.Remove(customPath)

		os.Setenv(ConfigPathEnvVar, customPath)
		defer os.Unsetenv(ConfigPathEnvVar)

		result := findConfigFile()
		if result != customPath {
			t.Errorf("findConfigFile() = %q, want %q", result, customPath)
		}
	})

	t.Run("ANISETTE_CONFIG env var with non-existent file", func(t *testing.T) {
		os.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
		defer os.Unsetenv(ConfigPathEnvVar)

		result := findConfigFile()
		// Should fall back to default paths (which don't exist in temp dir)
		if result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})
}

// TestLoadWithKoanfEnvVars tests loading configuration from environment variables
func TestLoadWithKoanfEnvVars(t *testing.T) {
	// Clear all environment variables
	os.Clearenv()

	// Set some custom values to override defaults
	os.Setenv("HTTP_PORT", "9000")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("DEDUP_THRESHOLD", "0.9")
	os.Setenv("SIMILARITY_TOP_N", "25")
	os.Setenv("ANILIST_PAGE_SIZE", "40")
	os.Setenv("PIPELINE_INTERVAL", "6h")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	// Verify custom overrides
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Dedup.Threshold != 0.9 {
		t.Errorf("Dedup.Threshold = %v, want 0.9", cfg.Dedup.Threshold)
	}
	if cfg.Similarity.TopN != 25 {
		t.Errorf("Similarity.TopN = %d, want 25", cfg.Similarity.TopN)
	}
	if cfg.AniList.PageSize != 40 {
		t.Errorf("AniList.PageSize = %d, want 40", cfg.AniList.PageSize)
	}
	if cfg.Pipeline.Interval != 6*time.Hour {
		t.Errorf("Pipeline.Interval = %v, want 6h", cfg.Pipeline.Interval)
	}

	// Verify defaults are still applied for unset values
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0 (default)", cfg.Server.Host)
	}
	if cfg.Database.MaxMemory != "2GB" {
		t.Errorf("Database.MaxMemory = %q, want 2GB (default)", cfg.Database.MaxMemory)
	}
	if cfg.AniList.URL != "https://graphql.anilist.co" {
		t.Errorf("AniList.URL = %q, want default endpoint", cfg.AniList.URL)
	}
}

// TestLoadWithKoanfConfigFile tests loading configuration from a YAML file
func TestLoadWithKoanfConfigFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	configContent := `
anilist:
  url: "https://anilist.example.com/graphql"
  page_size: 30

dedup:
  threshold: 0.92

server:
  port: 8888
  host: "127.0.0.1"

logging:
  level: "warn"
`
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}

	// Clear environment and point at the config file
	os.Clearenv()
	os.Setenv(ConfigPathEnvVar, configPath)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	// Verify values from config file
	if cfg.AniList.URL != "https://anilist.example.com/graphql" {
		t.Errorf("AniList.URL = %q, want https://anilist.example.com/graphql", cfg.AniList.URL)
	}
	if cfg.AniList.PageSize != 30 {
		t.Errorf("AniList.PageSize = %d, want 30", cfg.AniList.PageSize)
	}
	if cfg.Dedup.Threshold != 0.92 {
		t.Errorf("Dedup.Threshold = %v, want 0.92", cfg.Dedup.Threshold)
	}
	if cfg.Server.Port != 8888 {
		t.Errorf("Server.Port = %d, want 8888", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}

	// Verify defaults are still applied for unset values
	if cfg.Database.Path != "/data/anisette.duckdb" {
		t.Errorf("Database.Path = %q, want /data/anisette.duckdb (default)", cfg.Database.Path)
	}
}

// TestLoadWithKoanfEnvOverridesFile tests that env vars override config file
func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	configContent := `
server:
  port: 8888
  host: "127.0.0.1"

dedup:
  threshold: 0.92
`
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}

	os.Clearenv()
	os.Setenv(ConfigPathEnvVar, configPath)
	os.Setenv("HTTP_PORT", "9999")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	// Env var wins over file
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999 (env override)", cfg.Server.Port)
	}

	// File value survives where no env var is set
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want 127.0.0.1 (from file)", cfg.Server.Host)
	}
	if cfg.Dedup.Threshold != 0.92 {
		t.Errorf("Dedup.Threshold = %v, want 0.92 (from file)", cfg.Dedup.Threshold)
	}
}

// TestLoadWithKoanfSliceFields tests comma-separated env values for slice fields
func TestLoadWithKoanfSliceFields(t *testing.T) {
	os.Clearenv()
	os.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	os.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,172.16.0.0/12")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	wantOrigins := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.Security.CORSOrigins) != len(wantOrigins) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, wantOrigins)
	}
	for i, want := range wantOrigins {
		if cfg.Security.CORSOrigins[i] != want {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Security.CORSOrigins[i], want)
		}
	}

	wantProxies := []string{"10.0.0.0/8", "172.16.0.0/12"}
	if len(cfg.Security.TrustedProxies) != len(wantProxies) {
		t.Fatalf("TrustedProxies = %v, want %v", cfg.Security.TrustedProxies, wantProxies)
	}
	for i, want := range wantProxies {
		if cfg.Security.TrustedProxies[i] != want {
			t.Errorf("TrustedProxies[%d] = %q, want %q", i, cfg.Security.TrustedProxies[i], want)
		}
	}
}
