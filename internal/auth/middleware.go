// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/anisette/internal/config"
	"github.com/tomtom215/anisette/internal/logging"
)

// AuthMode represents the authentication strategy.
type AuthMode string

const (
	// AuthModeNone disables authentication entirely.
	AuthModeNone AuthMode = "none"

	// AuthModeBasic uses HTTP Basic Authentication on every request.
	AuthModeBasic AuthMode = "basic"

	// AuthModeJWT uses bearer tokens issued by the login endpoint.
	AuthModeJWT AuthMode = "jwt"
)

type contextKey string

// ClaimsContextKey is the request context key holding the authenticated
// user's *Claims.
const ClaimsContextKey contextKey = "claims"

// Login error sentinels, mapped to HTTP status codes by the API layer.
var (
	// ErrLoginDisabled is returned when the login endpoint is called but
	// the auth mode does not issue tokens.
	ErrLoginDisabled = errors.New("login requires jwt auth mode")

	// ErrInvalidCredentials is returned for a failed username/password check.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Middleware enforces the configured authentication mode on protected
// HTTP endpoints.
//
// Mode none passes every request through. Mode basic challenges with
// WWW-Authenticate and verifies credentials per request. Mode jwt
// expects a bearer token (or "token" cookie) issued by Login.
type Middleware struct {
	mode             AuthMode
	jwtManager       *JWTManager
	basicAuthManager *BasicAuthManager
}

// NewMiddleware builds the authentication middleware for the configured
// mode. Basic and jwt modes require admin credentials; jwt additionally
// requires a signing secret. An unknown mode is a startup error rather
// than an open gate.
func NewMiddleware(cfg *config.SecurityConfig) (*Middleware, error) {
	mode := AuthMode(cfg.AuthMode)
	if mode == "" {
		mode = AuthModeNone
	}

	m := &Middleware{mode: mode}

	switch mode {
	case AuthModeNone:
		logging.Warn().Msg("Authentication disabled (AUTH_MODE=none); API endpoints are unprotected")

	case AuthModeBasic:
		basicManager, err := NewBasicAuthManager(cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			return nil, fmt.Errorf("basic auth setup failed: %w", err)
		}
		m.basicAuthManager = basicManager

	case AuthModeJWT:
		jwtManager, err := NewJWTManager(cfg)
		if err != nil {
			return nil, fmt.Errorf("jwt auth setup failed: %w", err)
		}
		// Login credentials are checked through the same bcrypt path as
		// basic mode, so the plaintext admin password is hashed once here
		// and never compared directly.
		basicManager, err := NewBasicAuthManager(cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			return nil, fmt.Errorf("jwt auth setup failed: %w", err)
		}
		m.jwtManager = jwtManager
		m.basicAuthManager = basicManager

	default:
		return nil, fmt.Errorf("unsupported auth mode %q (expected none, basic, or jwt)", cfg.AuthMode)
	}

	logging.Info().Str("mode", string(mode)).Msg("Authentication middleware initialized")
	return m, nil
}

// Mode returns the active authentication mode.
func (m *Middleware) Mode() AuthMode {
	return m.mode
}

// Authenticate is middleware that enforces authentication on an
// endpoint according to the configured mode.
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.mode == AuthModeNone {
			next(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")

		if m.mode == AuthModeBasic {
			m.handleBasicAuth(w, r, next, authHeader)
			return
		}

		m.handleJWTAuth(w, r, next, authHeader)
	}
}

// handleBasicAuth processes Basic Authentication requests.
func (m *Middleware) handleBasicAuth(w http.ResponseWriter, r *http.Request, next http.HandlerFunc, authHeader string) {
	if authHeader == "" {
		m.sendBasicAuthChallenge(w, "Unauthorized: authentication required")
		return
	}

	username, err := m.basicAuthManager.ValidateCredentials(authHeader)
	if err != nil {
		logging.Warn().Err(err).Str("path", r.URL.Path).Msg("Basic auth validation failed")
		m.sendBasicAuthChallenge(w, "Unauthorized: invalid credentials")
		return
	}

	claims := &Claims{Username: username, Role: "admin"}
	ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
	next(w, r.WithContext(ctx))
}

// sendBasicAuthChallenge sends a WWW-Authenticate challenge with the
// 401 response, as the HTTP spec requires for Basic Auth.
func (m *Middleware) sendBasicAuthChallenge(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", m.basicAuthManager.GetWWWAuthenticateHeader())
	http.Error(w, message, http.StatusUnauthorized)
}

// handleJWTAuth processes bearer-token requests.
func (m *Middleware) handleJWTAuth(w http.ResponseWriter, r *http.Request, next http.HandlerFunc, authHeader string) {
	token, err := m.extractJWTToken(r, authHeader)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	claims, err := m.jwtManager.ValidateToken(token)
	if err != nil {
		logging.Warn().Err(err).Str("path", r.URL.Path).Msg("Token validation failed")
		http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
		return
	}

	ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
	next(w, r.WithContext(ctx))
}

// extractJWTToken pulls the token from the Authorization header or,
// when the header is absent, from the "token" cookie set at login.
func (m *Middleware) extractJWTToken(r *http.Request, authHeader string) (string, error) {
	if authHeader == "" {
		cookie, err := r.Cookie("token")
		if err != nil {
			return "", fmt.Errorf("unauthorized: missing token")
		}
		return cookie.Value, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fmt.Errorf("unauthorized: invalid authorization header")
	}

	return parts[1], nil
}

// Login verifies admin credentials and issues a signed token. Only jwt
// mode issues tokens; other modes return ErrLoginDisabled.
func (m *Middleware) Login(username, password string) (string, time.Time, error) {
	if m.mode != AuthModeJWT {
		return "", time.Time{}, ErrLoginDisabled
	}

	if !m.basicAuthManager.VerifyPassword(username, password) {
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, err := m.jwtManager.GenerateToken(username, "admin")
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token generation failed: %w", err)
	}

	return token, time.Now().Add(m.jwtManager.Timeout()), nil
}

// ClaimsFromContext returns the authenticated claims stored by
// Authenticate, or nil when the request was not authenticated.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	if !ok {
		return nil
	}
	return claims
}
