// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/auth"
)

// SessionRepository implements auth.SessionRepository using PostgreSQL.
// Liveness is judged against the database clock.
type SessionRepository struct {
	pool poolIface
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool poolIface) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// CreateSession stores a new session.
func (r *SessionRepository) CreateSession(ctx context.Context, session *auth.Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (id, user_id, refresh_token_hash, ip_address, user_agent, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		session.ID,
		session.UserID,
		session.RefreshTokenHash,
		session.IPAddress,
		session.UserAgent,
		session.CreatedAt,
		session.ExpiresAt,
	)
	if err != nil {
		return oops.Code("SESSION_CREATE_FAILED").
			With("operation", "insert session").
			With("session_id", session.ID).
			With("user_id", session.UserID).
			Wrap(err)
	}
	return nil
}

// FindByRefreshTokenHash returns the live session holding hash. Revoked and
// expired sessions are not found.
func (r *SessionRepository) FindByRefreshTokenHash(ctx context.Context, hash string) (*auth.Session, error) {
	var (
		s         auth.Session
		revokedAt *time.Time
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, refresh_token_hash, ip_address, user_agent, created_at, expires_at, revoked_at
		FROM sessions
		WHERE refresh_token_hash = $1 AND revoked_at IS NULL AND expires_at > NOW()
	`, hash).Scan(&s.ID, &s.UserID, &s.RefreshTokenHash, &s.IPAddress, &s.UserAgent, &s.CreatedAt, &s.ExpiresAt, &revokedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("SESSION_QUERY_FAILED").
			With("operation", "find session by refresh token hash").
			Wrap(err)
	}
	s.RevokedAt = revokedAt
	return &s, nil
}

// RevokeSession marks a session revoked. It reports false when the session
// was already revoked and ErrNotFound when it does not exist.
func (r *SessionRepository) RevokeSession(ctx context.Context, sessionID string) (bool, error) {
	result, err := r.pool.Exec(ctx, `
		UPDATE sessions SET revoked_at = NOW()
		WHERE id = $1 AND revoked_at IS NULL
	`, sessionID)
	if err != nil {
		return false, oops.Code("SESSION_REVOKE_FAILED").
			With("operation", "revoke session").
			With("session_id", sessionID).
			Wrap(err)
	}
	if result.RowsAffected() > 0 {
		return true, nil
	}

	var exists bool
	err = r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sessions WHERE id = $1)`, sessionID).Scan(&exists)
	if err != nil {
		return false, oops.Code("SESSION_QUERY_FAILED").
			With("operation", "check session exists").
			With("session_id", sessionID).
			Wrap(err)
	}
	if !exists {
		return false, oops.Code("SESSION_NOT_FOUND").With("session_id", sessionID).Wrap(auth.ErrNotFound)
	}
	return false, nil
}

// RevokeAllForUser revokes every live session of a user.
func (r *SessionRepository) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
	result, err := r.pool.Exec(ctx, `
		UPDATE sessions SET revoked_at = NOW()
		WHERE user_id = $1 AND revoked_at IS NULL AND expires_at > NOW()
	`, userID)
	if err != nil {
		return 0, oops.Code("SESSION_REVOKE_FAILED").
			With("operation", "revoke all sessions for user").
			With("user_id", userID).
			Wrap(err)
	}
	return result.RowsAffected(), nil
}

// DeleteExpired removes expired sessions and returns the count.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, oops.Code("SESSION_DELETE_EXPIRED_FAILED").
			With("operation", "delete expired sessions").
			Wrap(err)
	}
	return result.RowsAffected(), nil
}

var _ auth.SessionRepository = (*SessionRepository)(nil)
