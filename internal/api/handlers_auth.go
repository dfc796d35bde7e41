// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/anisette/internal/auth"
	"github.com/tomtom215/anisette/internal/logging"
	"github.com/tomtom215/anisette/internal/models"
)

// Login handles user authentication requests
//
// @Summary Authenticate user
// @Description Authenticates with username and password, returns a JWT token in the body and as an HTTP-only cookie. Requires AUTH_MODE=jwt.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.APIResponse{data=models.LoginResponse} "Authentication successful"
// @Failure 400 {object} models.APIResponse "Invalid request body"
// @Failure 401 {object} models.APIResponse "Invalid credentials"
// @Failure 403 {object} models.APIResponse "Token authentication disabled"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	token, expiresAt, err := h.authMw.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrLoginDisabled):
			respondError(w, http.StatusForbidden, "AUTH_DISABLED", "Token authentication is not enabled", nil)
		case errors.Is(err, auth.ErrInvalidCredentials):
			logging.Warn().Str("username", sanitizeLogValue(req.Username)).Msg("Login failed")
			respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
		default:
			respondError(w, http.StatusInternalServerError, "TOKEN_GENERATION_FAILED", "Failed to generate authentication token", err)
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	logging.Info().Str("username", sanitizeLogValue(req.Username)).Msg("Login succeeded")

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.LoginResponse{
			Token:     token,
			ExpiresAt: expiresAt,
			Username:  req.Username,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
