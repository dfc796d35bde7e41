// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/anisette/internal/database"
	"github.com/tomtom215/anisette/internal/models"
	"github.com/tomtom215/anisette/internal/recommend"
)

// queryTimeout bounds warehouse work per request. Recommendation
// queries are index lookups and stay far under this; the bound protects
// against a wedged connection, not slow queries.
const queryTimeout = 10 * time.Second

// Recommendations serves single-seed recommendations
//
// @Summary Get recommendations for a title
// @Description Returns titles most similar to the seed title, strongest first. The seed's own franchise is excluded and each series contributes at most one entry.
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param title query string true "Seed title (exact or substring match against the catalog)"
// @Param limit query int false "Maximum results (1-100)" default(10) minimum(1) maximum(100)
// @Success 200 {object} models.APIResponse "Recommendations retrieved successfully"
// @Failure 400 {object} models.APIResponse "Missing title parameter"
// @Failure 404 {object} models.APIResponse "Title not found in catalog"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Failure 503 {object} models.APIResponse "Recommendation engine unavailable"
// @Router /recommendations [get]
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if h.query == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Recommendation engine unavailable", nil)
		return
	}

	title := r.URL.Query().Get("title")
	if title == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Query parameter 'title' is required", nil)
		return
	}
	limit := getIntParam(r, "limit", 0) // engine applies its own default and cap

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	start := time.Now()
	recs, err := h.query.Recommend(ctx, title, limit)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Title not found in catalog", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute recommendations", err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse(map[string]interface{}{
		"title":           title,
		"recommendations": recs,
		"count":           len(recs),
	}, time.Since(start)))
}

// RecommendationsMulti serves multi-seed recommendations
//
// @Summary Get recommendations for multiple titles
// @Description Ranks candidates by mean similarity over the seeds that know them, breaking ties by how many seeds matched. Seeds that do not resolve are skipped; the response lists them.
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param request body models.MultiRecommendRequest true "Seed titles and optional limit"
// @Success 200 {object} models.APIResponse "Recommendations retrieved successfully"
// @Failure 400 {object} models.APIResponse "Invalid request body"
// @Failure 404 {object} models.APIResponse "No seed titles resolved"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Failure 503 {object} models.APIResponse "Recommendation engine unavailable"
// @Router /recommendations/multi [post]
func (h *Handler) RecommendationsMulti(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if h.query == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Recommendation engine unavailable", nil)
		return
	}

	var req models.MultiRecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	start := time.Now()
	recs, err := h.query.RecommendMulti(ctx, req.Titles, req.Limit)
	if err != nil {
		if errors.Is(err, recommend.ErrNoSeedsResolved) {
			respondError(w, http.StatusNotFound, "NO_SEEDS_RESOLVED", "None of the requested titles exist in the catalog", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute recommendations", err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse(map[string]interface{}{
		"titles":          req.Titles,
		"recommendations": recs,
		"count":           len(recs),
	}, time.Since(start)))
}

// AnimeSimilar serves the raw similarity neighbors of one anime
//
// @Summary Get similar anime by key
// @Description Returns the persisted similarity index rows for one anime, strongest first, without series filtering. Prefer /recommendations for end-user lists.
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param animeKey path int true "Anime key"
// @Param limit query int false "Maximum results (1-100)" default(20) minimum(1) maximum(100)
// @Success 200 {object} models.APIResponse "Similar titles retrieved successfully"
// @Failure 400 {object} models.APIResponse "Invalid anime key"
// @Failure 404 {object} models.APIResponse "Anime not found"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /anime/{animeKey}/similar [get]
func (h *Handler) AnimeSimilar(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	animeKey, err := strconv.ParseInt(chi.URLParam(r, "animeKey"), 10, 64)
	if err != nil || animeKey <= 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Path parameter 'animeKey' must be a positive integer", nil)
		return
	}
	defaultLimit, maxLimit := h.getPageSizeConfig()
	limit := clampLimit(getIntParam(r, "limit", defaultLimit), defaultLimit, maxLimit)

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	start := time.Now()
	if _, err := h.db.GetAnimeByKey(ctx, animeKey); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Anime not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load anime", err)
		return
	}

	similar, err := h.db.SimilarTo(ctx, animeKey, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load similarity rows", err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse(map[string]interface{}{
		"anime_key": animeKey,
		"similar":   similar,
		"count":     len(similar),
	}, time.Since(start)))
}
