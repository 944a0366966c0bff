// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"
	"time"

	"github.com/holomush/authcore/internal/autherr"
	"github.com/holomush/authcore/internal/identity"
	"github.com/holomush/authcore/internal/token"
)

// IssueSessionInput identifies an already authenticated user and the client
// the session is for.
type IssueSessionInput struct {
	User      identity.UserIdentity
	IPAddress string
	UserAgent string
}

// IssueSessionOutput is the new token pair. ExpiresIn is the access token
// TTL in seconds.
type IssueSessionOutput struct {
	AccessToken  token.Token
	RefreshToken token.Token
	SessionID    string
	ExpiresIn    uint64
}

// IssueSession mints an access/refresh token pair and persists a session
// keyed by the refresh token hash.
type IssueSession struct {
	sessions SessionRepository
	tokens   TokenService
	policy   TokenPolicy
	opts     options
}

// NewIssueSession creates the use case.
func NewIssueSession(sessions SessionRepository, tokens TokenService, policy TokenPolicy, opts ...Option) (*IssueSession, error) {
	if sessions == nil || tokens == nil {
		return nil, autherr.New(autherr.InvalidConfiguration("issue session requires session and token ports"))
	}
	if err := policy.Validate(); err != nil {
		return nil, autherr.Wrap(autherr.InvalidConfiguration("invalid token policy"), err)
	}
	return &IssueSession{sessions: sessions, tokens: tokens, policy: policy, opts: applyOptions(opts)}, nil
}

// Execute issues the session. The session id is generated first and
// embedded as "sid" in both tokens.
func (uc *IssueSession) Execute(ctx context.Context, in IssueSessionInput) (*IssueSessionOutput, error) {
	if in.User.IsZero() {
		return nil, autherr.New(autherr.Violated("issue session requires an authenticated user"))
	}

	now := uc.opts.clock.Now()
	sessionID := uc.opts.sessionID()

	pair, err := mintPair(uc.tokens, in.User.ToClaimsID(), sessionID, now, uc.policy)
	if err != nil {
		return nil, err
	}

	session, err := NewSession(sessionID, in.User.ID(), HashRefreshToken(pair.refresh.Value()),
		in.IPAddress, in.UserAgent, now, now.Add(uc.policy.RefreshTTL))
	if err != nil {
		return nil, autherr.Wrap(autherr.AssertionFailed("valid session", "issue session"), err)
	}
	if err := uc.sessions.CreateSession(ctx, session); err != nil {
		return nil, dependencyError("session_repository", "create session", err)
	}

	uc.opts.recorder.SessionIssued()
	uc.opts.logger.InfoContext(ctx, "session issued",
		"session_id", sessionID,
		"user_id", in.User.ID(),
		"ip_address", in.IPAddress)

	return &IssueSessionOutput{
		AccessToken:  pair.access,
		RefreshToken: pair.refresh,
		SessionID:    sessionID,
		ExpiresIn:    uc.policy.AccessTTLSeconds(),
	}, nil
}

type tokenPair struct {
	access  token.Token
	refresh token.Token
}

// mintPair issues an access and a refresh token for the same session.
func mintPair(tokens TokenService, subject, sessionID string, now time.Time, policy TokenPolicy) (tokenPair, error) {
	access, err := issueAccess(tokens, subject, sessionID, now, policy)
	if err != nil {
		return tokenPair{}, err
	}
	refresh, err := issueRefresh(tokens, subject, sessionID, now, policy)
	if err != nil {
		return tokenPair{}, err
	}
	return tokenPair{access: access, refresh: refresh}, nil
}

func issueAccess(tokens TokenService, subject, sessionID string, now time.Time, policy TokenPolicy) (token.Token, error) {
	claims, err := token.NewSessionClaims(subject, token.TypeAccess, now.Add(policy.AccessTTL), sessionID).Encode()
	if err != nil {
		return token.Token{}, autherr.Wrap(autherr.AssertionFailed("encodable claims", "access token"), err)
	}
	tok, err := tokens.IssueAccessToken(subject, claims)
	if err != nil {
		return token.Token{}, dependencyError("token_service", "issue access token", err)
	}
	return tok, nil
}

func issueRefresh(tokens TokenService, subject, sessionID string, now time.Time, policy TokenPolicy) (token.Token, error) {
	claims, err := token.NewSessionClaims(subject, token.TypeRefresh, now.Add(policy.RefreshTTL), sessionID).Encode()
	if err != nil {
		return token.Token{}, autherr.Wrap(autherr.AssertionFailed("encodable claims", "refresh token"), err)
	}
	tok, err := tokens.IssueRefreshToken(subject, claims)
	if err != nil {
		return token.Token{}, dependencyError("token_service", "issue refresh token", err)
	}
	return tok, nil
}
