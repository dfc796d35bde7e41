// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

/*
Package cache provides thread-safe in-memory caching with TTL support.

This package implements a simple but effective caching layer for API
responses, reducing warehouse load and improving response times for
frequently accessed aggregates.

# Overview

The cache provides:
  - Thread-safe concurrent access (sync.RWMutex)
  - Time-to-live (TTL) expiration with background cleanup
  - Simple key-value storage with any value type (interface{})
  - Hit/miss/eviction statistics for monitoring

# Use Cases

Primary use cases:
  - Catalog statistics (/api/v1/stats, 5-minute TTL)
  - Deduplication statistics (/api/v1/dedup/stats, 5-minute TTL)

Recommendation responses are NOT cached here: they vary by title, seed
set, and limit, so the hit rate would be poor relative to the memory
spent. The warehouse answers those directly.

# Usage Example

Basic caching:

	import "github.com/tomtom215/anisette/internal/cache"

	// Create cache with 5-minute default TTL
	c := cache.New(5 * time.Minute)

	// Store value
	c.Set("stats", stats)

	// Retrieve value
	if value, ok := c.Get("stats"); ok {
	    stats := value.(*models.Statistics)
	    // Use cached stats
	}

	// Delete specific key
	c.Delete("stats")

	// Clear entire cache
	c.Clear()

# Cache Invalidation

The cache supports two invalidation strategies:

1. TTL-based expiration (automatic):
  - Items expire after the configured TTL
  - Checked lazily during Get operations
  - Background cleanup sweeps expired items every 5 minutes

2. Manual invalidation (on data changes):
  - Clear() removes all cache entries
  - Delete(key) removes specific entry
  - The API handler clears the cache when a pipeline run completes,
    since every cached aggregate is stale once the catalog changes

# Thread Safety

All cache methods are thread-safe using sync.RWMutex:

  - Get: Acquires read lock (concurrent reads allowed)
  - Set: Acquires write lock (exclusive access)
  - Delete: Acquires write lock (exclusive access)
  - Clear: Acquires write lock (exclusive access)

Multiple goroutines can safely access the cache concurrently.

# Limitations

The current implementation has intentional limitations for simplicity:

  - No maximum cache size limit (grows unbounded)
  - No LRU eviction policy (only TTL-based)
  - No cache persistence (in-memory only)
  - No distributed caching (single instance)

These limitations are acceptable for the application's scale: the
cached key space is a handful of aggregate payloads, cleared wholesale
after each pipeline refresh.

# See Also

  - internal/api: API handlers that use caching
  - internal/anilist: upstream page cache (BadgerDB, persistent)
  - internal/database: warehouse layer cached by this package
*/
package cache
