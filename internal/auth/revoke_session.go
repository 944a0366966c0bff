// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"

	"github.com/holomush/authcore/internal/autherr"
)

// RevokeSessionInput names the session to revoke. At least one field must
// be set; SessionID wins when both are.
type RevokeSessionInput struct {
	SessionID        string
	RefreshTokenHash string
}

// RevokeSessionOutput reports the revoked session.
type RevokeSessionOutput struct {
	Revoked   bool
	SessionID string
}

// RevokeSession revokes a single session. Revoking by id is idempotent.
type RevokeSession struct {
	sessions SessionRepository
	opts     options
}

// NewRevokeSession creates the use case.
func NewRevokeSession(sessions SessionRepository, opts ...Option) (*RevokeSession, error) {
	if sessions == nil {
		return nil, autherr.New(autherr.InvalidConfiguration("revoke session requires a session port"))
	}
	return &RevokeSession{sessions: sessions, opts: applyOptions(opts)}, nil
}

// Execute revokes the session.
func (uc *RevokeSession) Execute(ctx context.Context, in RevokeSessionInput) (*RevokeSessionOutput, error) {
	sessionID := in.SessionID

	switch {
	case sessionID != "":
	case in.RefreshTokenHash != "":
		session, err := uc.sessions.FindByRefreshTokenHash(ctx, in.RefreshTokenHash)
		if err != nil {
			if isNotFound(err) {
				return nil, autherr.New(autherr.UserNotFound("session not found"))
			}
			return nil, dependencyError("session_repository", "find by refresh token hash", err)
		}
		sessionID = session.ID
	default:
		return nil, autherr.New(autherr.Violated("either session_id or refresh_token_hash must be provided"))
	}

	revoked, err := uc.sessions.RevokeSession(ctx, sessionID)
	if err != nil && !isNotFound(err) {
		return nil, dependencyError("session_repository", "revoke session", err)
	}
	if revoked {
		uc.opts.recorder.SessionsRevoked(1)
	}
	uc.opts.logger.InfoContext(ctx, "session revoked", "session_id", sessionID, "newly_revoked", revoked)

	return &RevokeSessionOutput{Revoked: true, SessionID: sessionID}, nil
}

// RevokeAllSessionsInput names the user whose sessions are revoked.
type RevokeAllSessionsInput struct {
	UserID string
}

// RevokeAllSessionsOutput reports how many live sessions were revoked.
type RevokeAllSessionsOutput struct {
	Revoked int64
}

// RevokeAllSessions revokes every live session of a user, e.g. after a
// password change.
type RevokeAllSessions struct {
	sessions SessionRepository
	opts     options
}

// NewRevokeAllSessions creates the use case.
func NewRevokeAllSessions(sessions SessionRepository, opts ...Option) (*RevokeAllSessions, error) {
	if sessions == nil {
		return nil, autherr.New(autherr.InvalidConfiguration("revoke all sessions requires a session port"))
	}
	return &RevokeAllSessions{sessions: sessions, opts: applyOptions(opts)}, nil
}

// Execute revokes the sessions.
func (uc *RevokeAllSessions) Execute(ctx context.Context, in RevokeAllSessionsInput) (*RevokeAllSessionsOutput, error) {
	if in.UserID == "" {
		return nil, autherr.New(autherr.Violated("user_id must be provided"))
	}
	n, err := uc.sessions.RevokeAllForUser(ctx, in.UserID)
	if err != nil {
		return nil, dependencyError("session_repository", "revoke all for user", err)
	}
	uc.opts.recorder.SessionsRevoked(n)
	uc.opts.logger.InfoContext(ctx, "all sessions revoked", "user_id", in.UserID, "count", n)
	return &RevokeAllSessionsOutput{Revoked: n}, nil
}
