// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/anisette/internal/models"
)

// Stats serves catalog-wide statistics
//
// @Summary Get catalog statistics
// @Description Returns entity and provenance counts, similarity index size, average score, the genre histogram, and the last pipeline run. Cached for five minutes.
// @Tags Statistics
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.Statistics} "Statistics retrieved successfully"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	start := time.Now()
	if cached, found := h.cache.Get("stats"); found {
		if stats, ok := cached.(*models.Statistics); ok {
			respondJSON(w, http.StatusOK, successResponse(stats, time.Since(start)))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	stats, err := h.db.GetStatistics(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute statistics", err)
		return
	}
	h.cache.Set("stats", stats)

	respondJSON(w, http.StatusOK, successResponse(stats, time.Since(start)))
}

// DedupStats serves deduplication statistics
//
// @Summary Get deduplication statistics
// @Description Returns provenance counts, the per-source breakdown, and fuzzy match confidence aggregates over merged rows. Cached for five minutes.
// @Tags Statistics
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.DedupStats} "Deduplication statistics retrieved successfully"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /dedup/stats [get]
func (h *Handler) DedupStats(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	start := time.Now()
	if cached, found := h.cache.Get("dedup_stats"); found {
		if stats, ok := cached.(*models.DedupStats); ok {
			respondJSON(w, http.StatusOK, successResponse(stats, time.Since(start)))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	stats, err := h.db.GetDedupStats(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute deduplication statistics", err)
		return
	}
	h.cache.Set("dedup_stats", stats)

	respondJSON(w, http.StatusOK, successResponse(stats, time.Since(start)))
}
