// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Session is a persisted login session. Only the hash of its refresh token
// is stored.
type Session struct {
	ID               string
	UserID           string
	RefreshTokenHash string
	IPAddress        string
	UserAgent        string
	CreatedAt        time.Time
	ExpiresAt        time.Time
	RevokedAt        *time.Time // nil while live
}

// NewSession creates a validated Session.
// IPAddress and UserAgent are optional and may be empty.
func NewSession(id, userID, refreshTokenHash, ipAddress, userAgent string, createdAt, expiresAt time.Time) (*Session, error) {
	if id == "" {
		return nil, oops.Code("SESSION_INVALID_ID").Errorf("session ID cannot be empty")
	}
	if userID == "" {
		return nil, oops.Code("SESSION_INVALID_USER").Errorf("user ID cannot be empty")
	}
	if refreshTokenHash == "" {
		return nil, oops.Code("SESSION_INVALID_HASH").Errorf("refresh token hash cannot be empty")
	}
	if expiresAt.IsZero() {
		return nil, oops.Code("SESSION_INVALID_EXPIRY").Errorf("expiry time cannot be zero")
	}
	if !expiresAt.After(createdAt) {
		return nil, oops.Code("SESSION_INVALID_EXPIRY").
			With("created_at", createdAt).
			With("expires_at", expiresAt).
			Errorf("expiry must be after creation")
	}

	return &Session{
		ID:               id,
		UserID:           userID,
		RefreshTokenHash: refreshTokenHash,
		IPAddress:        ipAddress,
		UserAgent:        userAgent,
		CreatedAt:        createdAt,
		ExpiresAt:        expiresAt,
	}, nil
}

// IsExpiredAt returns true if the session is expired at t.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}

// IsRevoked returns true once the session has been revoked.
func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

// IsLiveAt returns true if the session is neither revoked nor expired at t.
func (s *Session) IsLiveAt(t time.Time) bool {
	return !s.IsRevoked() && !s.IsExpiredAt(t)
}

// NewSessionID returns a time-ordered unique session id.
func NewSessionID() string {
	return ulid.Make().String()
}

// HashRefreshToken computes the SHA256 hash used to look sessions up by
// refresh token. The hash is stored; the token never is.
func HashRefreshToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// VerifyRefreshTokenHash checks a token against a stored hash in constant time.
func VerifyRefreshTokenHash(token, hash string) bool {
	if token == "" || hash == "" {
		return false
	}
	computed := HashRefreshToken(token)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}
