// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/pkg/errutil"
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*SessionRepository, *miniredis.Miniredis, *auth.FixedClock) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := auth.NewFixedClock(testNow)
	return NewSessionRepository(client, WithClock(clock)), mr, clock
}

func newSession(t *testing.T, id, userID, refresh string, ttl time.Duration) *auth.Session {
	t.Helper()
	s, err := auth.NewSession(id, userID, auth.HashRefreshToken(refresh), "203.0.113.7", "curl/8.0", testNow, testNow.Add(ttl))
	require.NoError(t, err)
	return s
}

func TestSessionRepository_CreateAndFind(t *testing.T) {
	repo, mr, _ := setup(t)
	ctx := context.Background()
	s := newSession(t, "sess-1", "user-1", "refresh-1", time.Hour)

	require.NoError(t, repo.CreateSession(ctx, s))

	got, err := repo.FindByRefreshTokenHash(ctx, s.RefreshTokenHash)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, s.UserID, got.UserID)
	assert.Equal(t, "203.0.113.7", got.IPAddress)
	assert.True(t, got.ExpiresAt.Equal(s.ExpiresAt))
	assert.Nil(t, got.RevokedAt)

	assert.Equal(t, time.Hour, mr.TTL("authcore:session:sess-1"))
	assert.Equal(t, time.Hour, mr.TTL("authcore:session:refresh:"+s.RefreshTokenHash))
	members, err := mr.Members("authcore:session:user:user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"sess-1"}, members)
}

func TestSessionRepository_CreateSkipsExpired(t *testing.T) {
	repo, mr, clock := setup(t)
	s := newSession(t, "sess-1", "user-1", "refresh-1", time.Minute)
	clock.Advance(time.Minute)

	require.NoError(t, repo.CreateSession(context.Background(), s))
	assert.False(t, mr.Exists("authcore:session:sess-1"))
}

func TestSessionRepository_FindByRefreshTokenHash(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown hash", func(t *testing.T) {
		repo, _, _ := setup(t)
		_, err := repo.FindByRefreshTokenHash(ctx, "nope")
		assert.ErrorIs(t, err, auth.ErrNotFound)
		errutil.AssertErrorCode(t, err, "SESSION_NOT_FOUND")
	})

	t.Run("expired by clock", func(t *testing.T) {
		repo, _, clock := setup(t)
		s := newSession(t, "sess-1", "user-1", "refresh-1", time.Hour)
		require.NoError(t, repo.CreateSession(ctx, s))

		clock.Advance(time.Hour)
		_, err := repo.FindByRefreshTokenHash(ctx, s.RefreshTokenHash)
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})

	t.Run("expired by ttl", func(t *testing.T) {
		repo, mr, _ := setup(t)
		s := newSession(t, "sess-1", "user-1", "refresh-1", time.Hour)
		require.NoError(t, repo.CreateSession(ctx, s))

		mr.FastForward(time.Hour)
		_, err := repo.FindByRefreshTokenHash(ctx, s.RefreshTokenHash)
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})

	t.Run("revoked", func(t *testing.T) {
		repo, _, _ := setup(t)
		s := newSession(t, "sess-1", "user-1", "refresh-1", time.Hour)
		require.NoError(t, repo.CreateSession(ctx, s))
		_, err := repo.RevokeSession(ctx, s.ID)
		require.NoError(t, err)

		_, err = repo.FindByRefreshTokenHash(ctx, s.RefreshTokenHash)
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})

	t.Run("corrupt record", func(t *testing.T) {
		repo, mr, _ := setup(t)
		require.NoError(t, mr.Set("authcore:session:refresh:h", "sess-1"))
		require.NoError(t, mr.Set("authcore:session:sess-1", "{not json"))

		_, err := repo.FindByRefreshTokenHash(ctx, "h")
		errutil.AssertErrorCode(t, err, "SESSION_DECODE_FAILED")
	})

	t.Run("connection failure", func(t *testing.T) {
		repo, mr, _ := setup(t)
		mr.Close()

		_, err := repo.FindByRefreshTokenHash(ctx, "h")
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrNotFound)
		errutil.AssertErrorCode(t, err, "SESSION_QUERY_FAILED")
	})
}

func TestSessionRepository_RevokeSession(t *testing.T) {
	ctx := context.Background()

	t.Run("first revoke wins, second loses", func(t *testing.T) {
		repo, mr, _ := setup(t)
		s := newSession(t, "sess-1", "user-1", "refresh-1", time.Hour)
		require.NoError(t, repo.CreateSession(ctx, s))

		ok, err := repo.RevokeSession(ctx, s.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.False(t, mr.Exists("authcore:session:refresh:"+s.RefreshTokenHash))
		assert.Equal(t, time.Hour, mr.TTL("authcore:session:sess-1"), "revocation keeps the record ttl")

		ok, err = repo.RevokeSession(ctx, s.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown session", func(t *testing.T) {
		repo, _, _ := setup(t)
		_, err := repo.RevokeSession(ctx, "missing")
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})

	t.Run("concurrent revokes have one winner", func(t *testing.T) {
		repo, _, _ := setup(t)
		s := newSession(t, "sess-1", "user-1", "refresh-1", time.Hour)
		require.NoError(t, repo.CreateSession(ctx, s))

		var wins atomic.Int32
		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := repo.RevokeSession(ctx, s.ID)
				if err == nil && ok {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
	})
}

func TestSessionRepository_RevokeAllForUser(t *testing.T) {
	repo, mr, _ := setup(t)
	ctx := context.Background()

	a := newSession(t, "sess-a", "user-1", "refresh-a", time.Hour)
	b := newSession(t, "sess-b", "user-1", "refresh-b", time.Hour)
	c := newSession(t, "sess-c", "user-1", "refresh-c", time.Minute)
	other := newSession(t, "sess-x", "user-2", "refresh-x", time.Hour)
	for _, s := range []*auth.Session{a, b, c, other} {
		require.NoError(t, repo.CreateSession(ctx, s))
	}
	_, err := repo.RevokeSession(ctx, b.ID)
	require.NoError(t, err)
	mr.FastForward(time.Minute)

	n, err := repo.RevokeAllForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "only sess-a was still live")

	members, err := mr.Members("authcore:session:user:user-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sess-a", "sess-b"}, members, "expired entry is pruned")

	_, err = repo.FindByRefreshTokenHash(ctx, other.RefreshTokenHash)
	assert.NoError(t, err, "other users are untouched")
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	repo, mr, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateSession(ctx, newSession(t, "sess-a", "user-1", "refresh-a", time.Minute)))
	require.NoError(t, repo.CreateSession(ctx, newSession(t, "sess-b", "user-1", "refresh-b", time.Hour)))
	require.NoError(t, repo.CreateSession(ctx, newSession(t, "sess-c", "user-2", "refresh-c", time.Minute)))
	mr.FastForward(time.Minute)

	n, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	members, err := mr.Members("authcore:session:user:user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"sess-b"}, members)
}

func TestSessionRepository_KeyPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	repo := NewSessionRepository(client, WithKeyPrefix("tenant-a:"), WithClock(auth.NewFixedClock(testNow)))

	require.NoError(t, repo.CreateSession(context.Background(), newSession(t, "sess-1", "user-1", "r", time.Hour)))
	assert.True(t, mr.Exists("tenant-a:session:sess-1"))
}
