// File: internal/domain/models/session.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is the durable login state living in the key-value store. It is
// keyed by the hash of its refresh token; the access token is the short-lived
// handle and is never stored.
type Session struct {
	AccountID         uuid.UUID `json:"account_id"`
	AccessTokenID     string    `json:"access_token_id"`
	DeviceFingerprint string    `json:"device_fingerprint,omitempty"`
	ClientIP          string    `json:"client_ip,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	ExpiresAt         time.Time `json:"expires_at"`
}

// Expired reports whether the session's refresh window has passed.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// TokenPair is the credential pair handed to a client after login or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// TokenStatus is the diagnostic view of a refresh token.
type TokenStatus struct {
	AccountID uuid.UUID `json:"account_id"`
	IsExpired bool      `json:"is_expired"`
}
