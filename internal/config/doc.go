// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

/*
Package config provides centralized configuration management for Anisette.

This package handles loading, validation, and parsing of configuration for
all application components. It ensures consistent configuration across the
backend services and provides sensible defaults for optional settings.

# Configuration Sources

Configuration is loaded with Koanf v2 from three layered sources, later
layers overriding earlier ones:

  - Built-in defaults (always present)
  - Optional YAML config file (config.yaml, or ANISETTE_CONFIG path)
  - Environment variables (highest priority)

# Configuration Structure

The package organizes configuration into logical groups:

  - AniListConfig: AniList GraphQL client (rate limits, paging, page cache)
  - DatabaseConfig: DuckDB path and performance tuning
  - DedupConfig: Cross-source entity resolution threshold
  - SimilarityConfig: TF-IDF vectorizer and similarity index bounds
  - RecommendConfig: Recommendation query limits
  - PipelineConfig: Scheduled aggregation runs
  - NATSConfig: Optional pipeline event publishing
  - ServerConfig: HTTP server settings (host, port, timeout)
  - APIConfig: Pagination limits
  - SecurityConfig: Authentication, rate limiting, CORS
  - LoggingConfig: Log level and format

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(cfg.Server.Port)

Load validates the assembled configuration and fails fast with an error
naming the offending environment variable.
*/
package config
