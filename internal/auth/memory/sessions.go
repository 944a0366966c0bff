// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package memory

import (
	"context"
	"sync"

	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/auth"
)

// Sessions implements auth.SessionRepository in memory. Liveness is judged
// against the configured clock.
type Sessions struct {
	mu        sync.Mutex
	clock     auth.Clock
	byID      map[string]*auth.Session
	byRefresh map[string]string
}

// NewSessions creates an empty session store. A nil clock means SystemClock.
func NewSessions(clock auth.Clock) *Sessions {
	if clock == nil {
		clock = auth.SystemClock{}
	}
	return &Sessions{
		clock:     clock,
		byID:      make(map[string]*auth.Session),
		byRefresh: make(map[string]string),
	}
}

// CreateSession stores a copy of session.
func (s *Sessions) CreateSession(_ context.Context, session *auth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[session.ID]; exists {
		return oops.Code("SESSION_CREATE_FAILED").
			With("session_id", session.ID).
			Errorf("session already exists")
	}
	if _, exists := s.byRefresh[session.RefreshTokenHash]; exists {
		return oops.Code("SESSION_CREATE_FAILED").
			With("session_id", session.ID).
			Errorf("refresh token hash already in use")
	}
	cp := *session
	s.byID[cp.ID] = &cp
	s.byRefresh[cp.RefreshTokenHash] = cp.ID
	return nil
}

// FindByRefreshTokenHash returns a copy of the live session holding hash.
func (s *Sessions) FindByRefreshTokenHash(_ context.Context, hash string) (*auth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byRefresh[hash]
	if !ok {
		return nil, oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	session := s.byID[id]
	if !session.IsLiveAt(s.clock.Now()) {
		return nil, oops.Code("SESSION_NOT_FOUND").With("session_id", id).Wrap(auth.ErrNotFound)
	}
	cp := *session
	return &cp, nil
}

// RevokeSession marks a session revoked.
func (s *Sessions) RevokeSession(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.byID[sessionID]
	if !ok {
		return false, oops.Code("SESSION_NOT_FOUND").With("session_id", sessionID).Wrap(auth.ErrNotFound)
	}
	return s.revokeLocked(session), nil
}

func (s *Sessions) revokeLocked(session *auth.Session) bool {
	if session.IsRevoked() {
		return false
	}
	now := s.clock.Now()
	session.RevokedAt = &now
	return true
}

// RevokeAllForUser revokes every live session of a user.
func (s *Sessions) RevokeAllForUser(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	var n int64
	for _, session := range s.byID {
		if session.UserID != userID || session.IsExpiredAt(now) {
			continue
		}
		if s.revokeLocked(session) {
			n++
		}
	}
	return n, nil
}

// DeleteExpired removes expired sessions.
func (s *Sessions) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	var n int64
	for id, session := range s.byID {
		if !session.IsExpiredAt(now) {
			continue
		}
		delete(s.byID, id)
		delete(s.byRefresh, session.RefreshTokenHash)
		n++
	}
	return n, nil
}

// Len reports the number of stored sessions, revoked ones included.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

var _ auth.SessionRepository = (*Sessions)(nil)
