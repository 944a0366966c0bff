// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package redis provides a Redis-backed session repository. Session records
// expire through Redis TTLs, so DeleteExpired only prunes stale index entries.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/auth"
)

// DefaultKeyPrefix namespaces every key written by the repository.
const DefaultKeyPrefix = "authcore:"

// maxTxAttempts bounds optimistic retries when a watched key changes.
const maxTxAttempts = 5

// record is the stored JSON form of a session.
type record struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	RefreshTokenHash string     `json:"refresh_token_hash"`
	IPAddress        string     `json:"ip_address,omitempty"`
	UserAgent        string     `json:"user_agent,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	ExpiresAt        time.Time  `json:"expires_at"`
	RevokedAt        *time.Time `json:"revoked_at,omitempty"`
}

func toRecord(s *auth.Session) record {
	return record{
		ID:               s.ID,
		UserID:           s.UserID,
		RefreshTokenHash: s.RefreshTokenHash,
		IPAddress:        s.IPAddress,
		UserAgent:        s.UserAgent,
		CreatedAt:        s.CreatedAt,
		ExpiresAt:        s.ExpiresAt,
		RevokedAt:        s.RevokedAt,
	}
}

func (r record) session() *auth.Session {
	return &auth.Session{
		ID:               r.ID,
		UserID:           r.UserID,
		RefreshTokenHash: r.RefreshTokenHash,
		IPAddress:        r.IPAddress,
		UserAgent:        r.UserAgent,
		CreatedAt:        r.CreatedAt,
		ExpiresAt:        r.ExpiresAt,
		RevokedAt:        r.RevokedAt,
	}
}

// SessionRepository implements auth.SessionRepository on Redis.
//
// Layout, relative to the key prefix:
//
//	session:<id>             JSON record, TTL until expiry
//	session:refresh:<hash>   session id, removed on revoke
//	session:user:<user id>   set of session ids
type SessionRepository struct {
	client goredis.UniversalClient
	prefix string
	clock  auth.Clock
}

// Option configures a SessionRepository.
type Option func(*SessionRepository)

// WithKeyPrefix overrides DefaultKeyPrefix.
func WithKeyPrefix(prefix string) Option {
	return func(r *SessionRepository) { r.prefix = prefix }
}

// WithClock sets the clock used for TTLs, liveness and revocation stamps.
func WithClock(clock auth.Clock) Option {
	return func(r *SessionRepository) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(client goredis.UniversalClient, opts ...Option) *SessionRepository {
	r := &SessionRepository{client: client, prefix: DefaultKeyPrefix, clock: auth.SystemClock{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *SessionRepository) sessionKey(id string) string   { return r.prefix + "session:" + id }
func (r *SessionRepository) refreshKey(hash string) string { return r.prefix + "session:refresh:" + hash }
func (r *SessionRepository) userKey(userID string) string  { return r.prefix + "session:user:" + userID }

// CreateSession stores a new session. A session that is already expired is
// not written.
func (r *SessionRepository) CreateSession(ctx context.Context, session *auth.Session) error {
	ttl := session.ExpiresAt.Sub(r.clock.Now())
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(toRecord(session))
	if err != nil {
		return oops.Code("SESSION_ENCODE_FAILED").With("session_id", session.ID).Wrap(err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, r.sessionKey(session.ID), data, ttl)
		pipe.Set(ctx, r.refreshKey(session.RefreshTokenHash), session.ID, ttl)
		pipe.SAdd(ctx, r.userKey(session.UserID), session.ID)
		return nil
	})
	if err != nil {
		return oops.Code("SESSION_CREATE_FAILED").
			With("operation", "store session").
			With("session_id", session.ID).
			With("user_id", session.UserID).
			Wrap(err)
	}
	return nil
}

// FindByRefreshTokenHash returns the live session holding hash.
func (r *SessionRepository) FindByRefreshTokenHash(ctx context.Context, hash string) (*auth.Session, error) {
	id, err := r.client.Get(ctx, r.refreshKey(hash)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("SESSION_QUERY_FAILED").
			With("operation", "find session by refresh token hash").
			Wrap(err)
	}

	rec, err := r.load(ctx, r.client, id)
	if err != nil {
		return nil, err
	}
	s := rec.session()
	if !s.IsLiveAt(r.clock.Now()) || s.RefreshTokenHash != hash {
		return nil, oops.Code("SESSION_NOT_FOUND").With("session_id", id).Wrap(auth.ErrNotFound)
	}
	return s, nil
}

// load reads a session record. Missing records yield ErrNotFound.
func (r *SessionRepository) load(ctx context.Context, c goredis.Cmdable, id string) (record, error) {
	var rec record
	data, err := c.Get(ctx, r.sessionKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return rec, oops.Code("SESSION_NOT_FOUND").With("session_id", id).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return rec, oops.Code("SESSION_QUERY_FAILED").
			With("operation", "load session").
			With("session_id", id).
			Wrap(err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, oops.Code("SESSION_DECODE_FAILED").With("session_id", id).Wrap(err)
	}
	return rec, nil
}

// RevokeSession marks a session revoked under WATCH, so exactly one of any
// concurrent callers observes true.
func (r *SessionRepository) RevokeSession(ctx context.Context, sessionID string) (bool, error) {
	key := r.sessionKey(sessionID)
	var revoked bool

	txf := func(tx *goredis.Tx) error {
		revoked = false
		rec, err := r.load(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if rec.RevokedAt != nil {
			return nil
		}
		now := r.clock.Now()
		rec.RevokedAt = &now
		data, err := json.Marshal(rec)
		if err != nil {
			return oops.Code("SESSION_ENCODE_FAILED").With("session_id", sessionID).Wrap(err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.SetArgs(ctx, key, data, goredis.SetArgs{KeepTTL: true})
			pipe.Del(ctx, r.refreshKey(rec.RefreshTokenHash))
			return nil
		})
		if err == nil {
			revoked = true
		}
		return err
	}

	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		if err != nil {
			if errors.Is(err, auth.ErrNotFound) {
				return false, err
			}
			return false, oops.Code("SESSION_REVOKE_FAILED").
				With("operation", "revoke session").
				With("session_id", sessionID).
				Wrap(err)
		}
		return revoked, nil
	}
	return false, oops.Code("SESSION_REVOKE_CONFLICT").
		With("session_id", sessionID).
		With("attempts", maxTxAttempts).
		Errorf("session changed concurrently on every attempt")
}

// RevokeAllForUser revokes every live session of a user.
func (r *SessionRepository) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
	ids, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil {
		return 0, oops.Code("SESSION_REVOKE_FAILED").
			With("operation", "list user sessions").
			With("user_id", userID).
			Wrap(err)
	}

	var count int64
	var stale []any
	for _, id := range ids {
		ok, err := r.RevokeSession(ctx, id)
		if errors.Is(err, auth.ErrNotFound) {
			stale = append(stale, id)
			continue
		}
		if err != nil {
			return count, oops.With("user_id", userID).Wrap(err)
		}
		if ok {
			count++
		}
	}
	if len(stale) > 0 {
		if err := r.client.SRem(ctx, r.userKey(userID), stale...).Err(); err != nil {
			return count, oops.Code("SESSION_REVOKE_FAILED").
				With("operation", "prune user sessions").
				With("user_id", userID).
				Wrap(err)
		}
	}
	return count, nil
}

// DeleteExpired prunes user index entries whose session record has expired
// and returns the number pruned.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	var pruned int64
	iter := r.client.Scan(ctx, 0, r.userKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		userKey := iter.Val()
		ids, err := r.client.SMembers(ctx, userKey).Result()
		if err != nil {
			return pruned, deleteExpiredError(err)
		}
		for _, id := range ids {
			n, err := r.client.Exists(ctx, r.sessionKey(id)).Result()
			if err != nil {
				return pruned, deleteExpiredError(err)
			}
			if n > 0 {
				continue
			}
			removed, err := r.client.SRem(ctx, userKey, id).Result()
			if err != nil {
				return pruned, deleteExpiredError(err)
			}
			pruned += removed
		}
	}
	if err := iter.Err(); err != nil {
		return pruned, deleteExpiredError(err)
	}
	return pruned, nil
}

func deleteExpiredError(err error) error {
	return oops.Code("SESSION_DELETE_EXPIRED_FAILED").
		With("operation", "prune expired sessions").
		Wrap(err)
}

var _ auth.SessionRepository = (*SessionRepository)(nil)
