// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"

	"github.com/holomush/authcore/internal/autherr"
	"github.com/holomush/authcore/internal/token"
)

// TokenTypeBearer is the token type reported to clients.
const TokenTypeBearer = "Bearer"

// RefreshSessionInput carries the refresh token presented by the client.
type RefreshSessionInput struct {
	RefreshToken token.Token
}

// RefreshSessionOutput carries the new access token. RefreshToken is nil
// unless rotation is enabled.
type RefreshSessionOutput struct {
	AccessToken  token.Token
	RefreshToken *token.Token
	TokenType    string
	ExpiresIn    uint64
	SessionID    string
}

// RefreshSession exchanges a refresh token for a new access token.
//
// With rotation enabled (TokenPolicy.OneTimeRefresh) the presented session
// is revoked and replaced by a new one bound to a new refresh token. Only
// the caller that wins the revocation gets new tokens, so a refresh token
// replayed concurrently mints at most one pair.
type RefreshSession struct {
	sessions SessionRepository
	tokens   TokenService
	policy   TokenPolicy
	opts     options
}

// NewRefreshSession creates the use case.
func NewRefreshSession(sessions SessionRepository, tokens TokenService, policy TokenPolicy, opts ...Option) (*RefreshSession, error) {
	if sessions == nil || tokens == nil {
		return nil, autherr.New(autherr.InvalidConfiguration("refresh session requires session and token ports"))
	}
	if err := policy.Validate(); err != nil {
		return nil, autherr.Wrap(autherr.InvalidConfiguration("invalid token policy"), err)
	}
	return &RefreshSession{sessions: sessions, tokens: tokens, policy: policy, opts: applyOptions(opts)}, nil
}

// Execute performs the refresh.
func (uc *RefreshSession) Execute(ctx context.Context, in RefreshSessionInput) (*RefreshSessionOutput, error) {
	payload, err := uc.tokens.ValidateRefreshToken(in.RefreshToken)
	if err != nil {
		uc.opts.logger.DebugContext(ctx, "refresh token rejected", "error", err)
		return nil, autherr.New(autherr.SignatureInvalid("refresh token signature invalid"))
	}

	claims, err := token.DecodeSessionClaims(payload)
	if err != nil {
		return nil, autherr.Wrap(autherr.InvalidClaims("refresh token claims unreadable"), err)
	}
	if claims.Sub == "" {
		return nil, autherr.New(autherr.InvalidClaims("missing subject"))
	}
	if claims.Type != "" && claims.Type != token.TypeRefresh {
		return nil, autherr.New(autherr.InvalidClaims("not a refresh token"))
	}

	now := uc.opts.clock.Now()
	if claims.Exp != 0 && claims.IsExpiredAt(now) {
		return nil, autherr.New(autherr.TokenExpired(token.FormatTimestamp(claims.ExpiresAt())))
	}

	session, err := uc.sessions.FindByRefreshTokenHash(ctx, HashRefreshToken(in.RefreshToken.Value()))
	if err != nil {
		if isNotFound(err) {
			return nil, autherr.New(autherr.UserNotFound("session not found"))
		}
		return nil, dependencyError("session_repository", "find by refresh token hash", err)
	}
	if session.UserID != claims.Sub {
		uc.opts.logger.WarnContext(ctx, "refresh token subject does not match session",
			"session_id", session.ID,
			"session_user_id", session.UserID)
		return nil, autherr.New(autherr.InvalidClaims("subject does not match session"))
	}

	if !uc.policy.OneTimeRefresh {
		access, err := issueAccess(uc.tokens, claims.Sub, session.ID, now, uc.policy)
		if err != nil {
			return nil, err
		}
		uc.opts.recorder.SessionRefreshed(false)
		return &RefreshSessionOutput{
			AccessToken: access,
			TokenType:   TokenTypeBearer,
			ExpiresIn:   uc.policy.AccessTTLSeconds(),
			SessionID:   session.ID,
		}, nil
	}

	return uc.rotate(ctx, session, claims.Sub)
}

// rotate replaces old with a new session. The replacement is prepared before
// the old session is revoked; the revoke decides which concurrent refresh wins.
func (uc *RefreshSession) rotate(ctx context.Context, old *Session, subject string) (*RefreshSessionOutput, error) {
	now := uc.opts.clock.Now()
	sessionID := uc.opts.sessionID()
	pair, err := mintPair(uc.tokens, subject, sessionID, now, uc.policy)
	if err != nil {
		return nil, err
	}

	next, err := NewSession(sessionID, old.UserID, HashRefreshToken(pair.refresh.Value()),
		old.IPAddress, old.UserAgent, now, now.Add(uc.policy.RefreshTTL))
	if err != nil {
		return nil, autherr.Wrap(autherr.AssertionFailed("valid session", "rotate session"), err)
	}

	revoked, err := uc.sessions.RevokeSession(ctx, old.ID)
	if err != nil && !isNotFound(err) {
		return nil, dependencyError("session_repository", "revoke session", err)
	}
	if err != nil || !revoked {
		uc.opts.logger.WarnContext(ctx, "refresh token reused after rotation", "session_id", old.ID)
		return nil, autherr.New(autherr.UserNotFound("session not found"))
	}

	if err := uc.sessions.CreateSession(ctx, next); err != nil {
		return nil, dependencyError("session_repository", "create session", err)
	}

	uc.opts.recorder.SessionRefreshed(true)
	uc.opts.logger.InfoContext(ctx, "session rotated",
		"previous_session_id", old.ID,
		"session_id", sessionID,
		"user_id", old.UserID)

	refresh := pair.refresh
	return &RefreshSessionOutput{
		AccessToken:  pair.access,
		RefreshToken: &refresh,
		TokenType:    TokenTypeBearer,
		ExpiresIn:    uc.policy.AccessTTLSeconds(),
		SessionID:    sessionID,
	}, nil
}
