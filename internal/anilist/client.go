// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

/*
client.go - AniList GraphQL Extraction Client

This file provides the HTTP client for the AniList GraphQL API, the
primary metadata source for the catalog pipeline.

Client Features:
  - Single paginated media query sorted by popularity
  - Client-side rate limiting (AniList allows 90 requests/minute)
  - Circuit breaker protection via sony/gobreaker
  - Automatic HTTP 429 handling honoring Retry-After
  - Retries with exponential backoff for transport and server failures
  - Optional BadgerDB page cache (cache.go)
  - Context support for cancellation and timeouts

AniList reports request-level errors inside a 200 response body, so the
client decodes the GraphQL error list and surfaces it as *GraphQLError.

Related Files:
  - types.go: response structs mirroring the GraphQL schema
  - cache.go: BadgerDB-backed page cache
*/

//nolint:staticcheck // File documentation, not package doc
package anilist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/anisette/internal/config"
	"github.com/tomtom215/anisette/internal/logging"
	"github.com/tomtom215/anisette/internal/metrics"
)

// Client defaults, applied when the corresponding config field is zero.
const (
	DefaultURL        = "https://graphql.anilist.co"
	DefaultRateLimit  = 90 // requests per minute, AniList's documented ceiling
	DefaultPageSize   = 50 // AniList caps perPage at 50
	DefaultMaxRetries = 3
	DefaultRetryDelay = 1 * time.Second
	DefaultTimeout    = 30 * time.Second
)

// maxErrorBodySize limits the response body read for error reporting
const maxErrorBodySize = 64 * 1024 // 64KB

const breakerName = "anilist-api"

// mediaPageQuery fetches one catalog page sorted by popularity. The
// selection is limited to the fields the transform stage consumes.
const mediaPageQuery = `
query ($page: Int, $perPage: Int) {
	Page(page: $page, perPage: $perPage) {
		pageInfo {
			total
			currentPage
			lastPage
			hasNextPage
		}
		media(type: ANIME, sort: POPULARITY_DESC) {
			id
			title {
				romaji
				english
				native
			}
			description(asHtml: false)
			episodes
			averageScore
			popularity
			genres
			tags {
				name
				rank
				category
				isMediaSpoiler
			}
			format
			source
			status
			season
			seasonYear
			studios {
				nodes {
					id
					name
					isAnimationStudio
				}
			}
			staff(perPage: 5, sort: RELEVANCE) {
				edges {
					role
					node {
						id
						name {
							full
						}
					}
				}
			}
		}
	}
}`

// Client fetches the AniList media catalog page by page.
//
// All methods are safe for concurrent use, though the pipeline drives a
// single FetchAll at a time. The rate limiter spaces requests to stay
// under AniList's per-minute ceiling regardless of caller concurrency.
type Client struct {
	url        string
	pageSize   int
	maxRetries int
	retryDelay time.Duration
	client     *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[*Page]
	cache      *PageCache
	cacheTTL   time.Duration
}

// NewClient creates an AniList client from configuration, applying
// defaults for zero-valued fields. When caching is enabled the page
// cache is opened at cfg.CacheDir; a cache that fails to open degrades
// to uncached operation with a warning rather than failing the client.
func NewClient(cfg *config.AniListConfig) *Client {
	if cfg == nil {
		cfg = &config.AniListConfig{}
	}

	url := cfg.URL
	if url == "" {
		url = DefaultURL
	}
	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = DefaultRateLimit
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > DefaultPageSize {
		pageSize = DefaultPageSize
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		url:        url,
		pageSize:   pageSize,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		client:     &http.Client{Timeout: timeout},
		// Burst 1 spaces requests evenly instead of allowing a spike
		// that would trip AniList's server-side limiter.
		limiter:  rate.NewLimiter(rate.Limit(float64(rateLimit)/60.0), 1),
		breaker:  newBreaker(),
		cacheTTL: cfg.CacheTTL,
	}

	if cfg.CacheEnabled && cfg.CacheDir != "" {
		cache, err := OpenPageCache(cfg.CacheDir)
		if err != nil {
			logging.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("Page cache unavailable, fetching uncached")
		} else {
			c.cache = cache
		}
	}

	logging.Info().
		Str("url", url).
		Int("rate_limit", rateLimit).
		Int("page_size", pageSize).
		Bool("cache", c.cache != nil).
		Msg("AniList client initialized")

	return c
}

// newBreaker builds the circuit breaker guarding the AniList API.
// Opens at a 60% failure rate over at least 10 requests; half-open after
// 2 minutes.
func newBreaker() *gobreaker.CircuitBreaker[*Page] {
	metrics.RecordCircuitBreakerState(breakerName, 0) // 0 = closed

	return gobreaker.NewCircuitBreaker[*Page](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("from", breakerStateString(from)).
				Str("to", breakerStateString(to)).
				Msg("[CIRCUIT BREAKER] AniList state transition")
			metrics.RecordCircuitBreakerState(name, breakerStateValue(to))
		},
	})
}

func breakerStateString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func breakerStateValue(s gobreaker.State) int {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// PageSize returns the configured entries-per-page.
func (c *Client) PageSize() int {
	return c.pageSize
}

// Close releases the page cache if one is open.
func (c *Client) Close() error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Close()
}

// Page fetches one catalog page, serving from the cache when possible.
// Cache misses go through the circuit breaker; successful fetches are
// written back with the configured TTL.
func (c *Client) Page(ctx context.Context, page, perPage int) (*Page, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Get(page, perPage); ok {
			metrics.AniListCacheHits.Inc()
			return cached, nil
		}
		metrics.AniListCacheMisses.Inc()
	}

	result, err := c.breaker.Execute(func() (*Page, error) {
		return c.fetchPage(ctx, page, perPage)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordCircuitBreakerRequest(breakerName, "rejected")
			logging.Warn().Err(err).Int("page", page).Msg("[CIRCUIT BREAKER] AniList request rejected")
		} else {
			metrics.RecordCircuitBreakerRequest(breakerName, "failure")
		}
		return nil, err
	}
	metrics.RecordCircuitBreakerRequest(breakerName, "success")

	if c.cache != nil {
		if err := c.cache.Put(page, perPage, result, c.cacheTTL); err != nil {
			logging.Warn().Err(err).Int("page", page).Msg("Failed to cache AniList page")
		}
	}

	return result, nil
}

// fetchPage executes the media page query with rate limiting and retries.
func (c *Client) fetchPage(ctx context.Context, page, perPage int) (*Page, error) {
	body, err := json.Marshal(graphQLRequest{
		Query: mediaPageQuery,
		Variables: map[string]interface{}{
			"page":    page,
			"perPage": perPage,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			metrics.AniListRetries.Inc()
		}

		if err := c.waitForRateLimit(ctx); err != nil {
			return nil, err
		}

		result, retryable, err := c.doRequest(ctx, body)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		if attempt == c.maxRetries {
			break
		}

		delay := c.retryDelay * time.Duration(1<<uint(attempt))
		if ra, ok := retryAfterDelay(err); ok {
			delay = ra
		}
		logging.Warn().
			Err(err).
			Int("page", page).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("AniList request failed, retrying")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("anilist page %d failed after %d retries: %w", page, c.maxRetries, lastErr)
}

// waitForRateLimit blocks until the limiter grants a slot or the context
// is cancelled.
func (c *Client) waitForRateLimit(ctx context.Context) error {
	r := c.limiter.Reserve()
	if !r.OK() {
		return errors.New("rate limiter rejected request")
	}
	delay := r.Delay()
	if delay == 0 {
		return nil
	}

	metrics.AniListRateLimitWaits.Inc()
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}

// rateLimitError marks an HTTP 429 so the retry loop can honor the
// server's Retry-After value.
type rateLimitError struct {
	retryAfter time.Duration
}

func (e *rateLimitError) Error() string {
	return fmt.Sprintf("anilist rate limited (HTTP 429, retry after %s)", e.retryAfter)
}

func retryAfterDelay(err error) (time.Duration, bool) {
	var rle *rateLimitError
	if errors.As(err, &rle) && rle.retryAfter > 0 {
		return rle.retryAfter, true
	}
	return 0, false
}

// doRequest performs one POST attempt. The second return value reports
// whether the failure is retryable (transport errors, 429, 5xx).
func (c *Client) doRequest(ctx context.Context, body []byte) (*Page, bool, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordAniListRequest("error", time.Since(start))
		return nil, true, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	metrics.RecordAniListRequest(fmt.Sprintf("%d", resp.StatusCode), time.Since(start))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := time.Duration(0)
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if parsed, err := time.ParseDuration(ra + "s"); err == nil {
				retryAfter = parsed
			}
		}
		return nil, true, &rateLimitError{retryAfter: retryAfter}

	case resp.StatusCode >= 500:
		errBody := readBodyForError(resp.Body)
		return nil, true, fmt.Errorf("anilist server error (status %d): %s", resp.StatusCode, string(errBody))

	case resp.StatusCode != http.StatusOK:
		errBody := readBodyForError(resp.Body)
		return nil, false, fmt.Errorf("anilist request failed (status %d): %s", resp.StatusCode, string(errBody))
	}

	var decoded pageResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, false, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(decoded.Errors) > 0 {
		gqlErr := decoded.Errors[0]
		return nil, false, &gqlErr
	}

	return &decoded.Data.Page, false, nil
}

// readBodyForError reads a bounded amount of the response body so error
// messages stay useful without unbounded allocation.
func readBodyForError(r io.Reader) []byte {
	limited := io.LimitReader(r, maxErrorBodySize)
	body, err := io.ReadAll(limited)
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// FetchAll pages through the catalog until the API reports no further
// pages or maxPages is reached (0 means unbounded). Pages stream in
// order; a failed page aborts the fetch with everything gathered so far
// discarded, keeping the downstream stages all-or-nothing per source.
func (c *Client) FetchAll(ctx context.Context, maxPages int) ([]Media, error) {
	var media []Media

	page := 1
	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		result, err := c.Page(ctx, page, c.pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", page, err)
		}

		media = append(media, result.Media...)
		metrics.AniListPagesFetched.Inc()

		logging.Debug().
			Int("page", page).
			Int("last_page", result.PageInfo.LastPage).
			Int("page_media", len(result.Media)).
			Int("total_media", len(media)).
			Msg("Fetched AniList page")

		if !result.PageInfo.HasNextPage || len(result.Media) == 0 {
			break
		}
		if maxPages > 0 && page >= maxPages {
			break
		}
		page++
	}

	logging.Info().
		Int("pages", page).
		Int("media", len(media)).
		Msg("AniList fetch complete")

	return media, nil
}
