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

	"github.com/tomtom215/anisette/internal/database"
)

// defaultMinPopularity filters barely-watched titles out of the top
// rated list; a show scored 95 by twelve voters should not outrank
// established catalog entries.
const defaultMinPopularity = 1000

// AnimeTop serves the highest rated anime
//
// @Summary Get top rated anime
// @Description Returns the highest scored anime at or above a popularity floor, score descending
// @Tags Catalog
// @Accept json
// @Produce json
// @Param limit query int false "Maximum results (1-100)" default(20) minimum(1) maximum(100)
// @Param min_popularity query int false "Popularity floor" default(1000) minimum(0)
// @Success 200 {object} models.APIResponse "Top rated anime retrieved successfully"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /anime/top [get]
func (h *Handler) AnimeTop(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	defaultLimit, maxLimit := h.getPageSizeConfig()
	limit := clampLimit(getIntParam(r, "limit", defaultLimit), defaultLimit, maxLimit)
	minPopularity := int64(getIntParam(r, "min_popularity", defaultMinPopularity))

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	start := time.Now()
	anime, err := h.db.TopRated(ctx, minPopularity, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query top rated anime", err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse(map[string]interface{}{
		"anime": anime,
		"count": len(anime),
	}, time.Since(start)))
}

// AnimePopular serves anime by popularity
//
// @Summary Get most popular anime
// @Description Returns anime ordered by popularity descending
// @Tags Catalog
// @Accept json
// @Produce json
// @Param limit query int false "Maximum results (1-100)" default(20) minimum(1) maximum(100)
// @Success 200 {object} models.APIResponse "Popular anime retrieved successfully"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /anime/popular [get]
func (h *Handler) AnimePopular(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	defaultLimit, maxLimit := h.getPageSizeConfig()
	limit := clampLimit(getIntParam(r, "limit", defaultLimit), defaultLimit, maxLimit)

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	start := time.Now()
	anime, err := h.db.MostPopular(ctx, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query popular anime", err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse(map[string]interface{}{
		"anime": anime,
		"count": len(anime),
	}, time.Since(start)))
}

// AnimeSearch serves catalog searches
//
// @Summary Search the anime catalog
// @Description Searches by title substring with optional genre, score, year, and format filters
// @Tags Catalog
// @Accept json
// @Produce json
// @Param q query string false "Title substring, case-insensitive"
// @Param genre query string false "Genre filter (e.g. Action)"
// @Param min_score query number false "Average score floor (0-100)"
// @Param year query int false "Season year"
// @Param format query string false "Format filter (TV, MOVIE, OVA, ...)"
// @Param limit query int false "Maximum results (1-100)" default(20) minimum(1) maximum(100)
// @Param offset query int false "Pagination offset" default(0) minimum(0)
// @Success 200 {object} models.APIResponse "Search results retrieved successfully"
// @Failure 400 {object} models.APIResponse "No search criteria supplied"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /anime/search [get]
func (h *Handler) AnimeSearch(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	defaultLimit, maxLimit := h.getPageSizeConfig()
	filter := database.SearchFilter{
		Query:    r.URL.Query().Get("q"),
		Genre:    r.URL.Query().Get("genre"),
		MinScore: getFloatParam(r, "min_score", 0),
		Year:     getIntParam(r, "year", 0),
		Format:   r.URL.Query().Get("format"),
		Limit:    clampLimit(getIntParam(r, "limit", defaultLimit), defaultLimit, maxLimit),
		Offset:   getIntParam(r, "offset", 0),
	}

	if filter.Query == "" && filter.Genre == "" && filter.MinScore == 0 && filter.Year == 0 && filter.Format == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "At least one search criterion is required", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	start := time.Now()
	anime, err := h.db.SearchAnime(ctx, filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to search catalog", err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse(map[string]interface{}{
		"anime":  anime,
		"count":  len(anime),
		"offset": filter.Offset,
	}, time.Since(start)))
}

// AnimeByKey serves one anime's full detail row
//
// @Summary Get anime detail
// @Description Returns the full warehouse row for one canonical anime, including the upstream source records that merged into it
// @Tags Catalog
// @Accept json
// @Produce json
// @Param animeKey path int true "Anime key"
// @Success 200 {object} models.APIResponse{data=models.AnimeDetail} "Anime retrieved successfully"
// @Failure 400 {object} models.APIResponse "Invalid anime key"
// @Failure 404 {object} models.APIResponse "Anime not found"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /anime/{animeKey} [get]
func (h *Handler) AnimeByKey(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	animeKey, err := strconv.ParseInt(chi.URLParam(r, "animeKey"), 10, 64)
	if err != nil || animeKey <= 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Path parameter 'animeKey' must be a positive integer", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	start := time.Now()
	detail, err := h.db.GetAnimeByKey(ctx, animeKey)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Anime not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load anime", err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse(detail, time.Since(start)))
}
