// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost balances hashing strength against login latency. The hash
// is computed once at startup, so a higher cost only affects login.
const bcryptCost = 12

// BasicAuthManager verifies HTTP Basic Authentication credentials for
// the single configured admin account.
//
// The password is bcrypt-hashed at initialization so the plaintext is
// never retained, and every comparison is timing-safe.
type BasicAuthManager struct {
	username     string
	passwordHash []byte
}

// NewBasicAuthManager creates a Basic Auth manager with a bcrypt-hashed
// password. Passwords shorter than 8 characters are rejected.
func NewBasicAuthManager(username, password string) (*BasicAuthManager, error) {
	if username == "" {
		return nil, fmt.Errorf("ADMIN_USERNAME is required but was empty")
	}
	if password == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD is required but was empty")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("ADMIN_PASSWORD must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &BasicAuthManager{
		username:     username,
		passwordHash: hash,
	}, nil
}

// ValidateCredentials validates an Authorization header carrying HTTP
// Basic credentials and returns the username on success.
func (m *BasicAuthManager) ValidateCredentials(authHeader string) (string, error) {
	if !strings.HasPrefix(authHeader, "Basic ") {
		return "", fmt.Errorf("invalid authorization header format")
	}

	encodedCredentials := strings.TrimPrefix(authHeader, "Basic ")
	credentials, err := base64.StdEncoding.DecodeString(encodedCredentials)
	if err != nil {
		return "", fmt.Errorf("failed to decode credentials")
	}

	parts := strings.SplitN(string(credentials), ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid credentials format")
	}

	if !m.VerifyPassword(parts[0], parts[1]) {
		return "", fmt.Errorf("invalid username or password")
	}

	return parts[0], nil
}

// VerifyPassword checks a username/password pair in constant time.
// Both comparisons always run so response timing does not reveal which
// part of the pair was wrong.
func (m *BasicAuthManager) VerifyPassword(username, password string) bool {
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(m.username)) == 1
	passwordMatch := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)) == nil
	return usernameMatch && passwordMatch
}

// GetWWWAuthenticateHeader returns the WWW-Authenticate value required
// alongside 401 responses for Basic Auth clients.
func (m *BasicAuthManager) GetWWWAuthenticateHeader() string {
	return `Basic realm="Anisette", charset="UTF-8"`
}
