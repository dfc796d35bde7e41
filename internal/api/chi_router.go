// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/anisette/internal/auth"
	"github.com/tomtom215/anisette/internal/config"
	"github.com/tomtom215/anisette/internal/middleware"
)

// Router wires handlers, authentication, and the Chi middleware stack.
type Router struct {
	handler       *Handler
	middleware    *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router from the handler, auth middleware, and
// security configuration.
func NewRouter(handler *Handler, authMw *auth.Middleware, sec *config.SecurityConfig) *Router {
	var chiMw *ChiMiddleware
	if sec != nil {
		chiMw = NewChiMiddlewareFromConfig(sec)
	} else {
		chiMw = NewChiMiddleware(nil)
	}

	return &Router{
		handler:       handler,
		middleware:    authMw,
		chiMiddleware: chiMw,
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
// This allows the auth and metrics middleware to work with Chi's r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes using the Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(RequestIDWithLogging())      // Add X-Request-ID header with logging context
	r.Use(DebugLogging())              // Diagnostic logging (enabled via ANISETTE_HTTP_DEBUG=true)
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// ========================
	// Health Endpoints
	// ========================
	// Permissive rate limiting allows frequent monitoring while preventing abuse
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealthTier())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	// ========================
	// Authentication Endpoints
	// ========================
	// Strict rate limiting for auth endpoints (brute force prevention)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAuthTier())
		r.Use(APISecurityHeaders())

		// Login has strictest rate limiting (5 attempts per 5 minutes)
		r.With(router.chiMiddleware.RateLimitLoginTier()).Post("/login", router.handler.Login)
	})

	// ========================
	// Core API Endpoints
	// ========================
	// All data endpoints require authentication when auth is enabled
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAPITier())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.Compression))
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(router.middleware.Authenticate))

		// Recommendations
		r.Get("/recommendations", router.handler.Recommendations)
		r.Post("/recommendations/multi", router.handler.RecommendationsMulti)

		// Catalog browsing and search
		r.Get("/anime/top", router.handler.AnimeTop)
		r.Get("/anime/popular", router.handler.AnimePopular)
		r.Get("/anime/search", router.handler.AnimeSearch)
		r.Get("/anime/{animeKey}", router.handler.AnimeByKey)
		r.Get("/anime/{animeKey}/similar", router.handler.AnimeSimilar)

		// Catalog statistics
		r.Get("/stats", router.handler.Stats)
		r.Get("/dedup/stats", router.handler.DedupStats)
	})

	// ========================
	// Pipeline Endpoints
	// ========================
	// Strict rate limiting for pipeline triggers (resource intensive)
	r.Route("/api/v1/pipeline", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitPipelineTier())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(router.middleware.Authenticate))

		r.Post("/run", router.handler.PipelineRun)
		r.Get("/status", router.handler.PipelineStatus)
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
