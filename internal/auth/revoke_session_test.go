// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/auth/mocks"
	"github.com/holomush/authcore/pkg/errutil"
)

func TestRevokeSession(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an input", func(t *testing.T) {
		uc, err := auth.NewRevokeSession(mocks.NewMockSessionRepository(t))
		require.NoError(t, err)

		_, err = uc.Execute(ctx, auth.RevokeSessionInput{})
		errutil.AssertErrorCode(t, err, "INVARIANT_VIOLATED")
		assert.Contains(t, err.Error(), "either session_id or refresh_token_hash must be provided")
	})

	t.Run("by id", func(t *testing.T) {
		sessions := mocks.NewMockSessionRepository(t)
		sessions.On("RevokeSession", mock.Anything, "sess-1").Return(true, nil)
		uc, err := auth.NewRevokeSession(sessions)
		require.NoError(t, err)

		out, err := uc.Execute(ctx, auth.RevokeSessionInput{SessionID: "sess-1"})
		require.NoError(t, err)
		assert.True(t, out.Revoked)
		assert.Equal(t, "sess-1", out.SessionID)
	})

	t.Run("by id is idempotent", func(t *testing.T) {
		sessions := mocks.NewMockSessionRepository(t)
		sessions.On("RevokeSession", mock.Anything, "sess-1").Return(false, nil)
		uc, err := auth.NewRevokeSession(sessions)
		require.NoError(t, err)

		out, err := uc.Execute(ctx, auth.RevokeSessionInput{SessionID: "sess-1"})
		require.NoError(t, err)
		assert.True(t, out.Revoked)
	})

	t.Run("unknown id still succeeds", func(t *testing.T) {
		sessions := mocks.NewMockSessionRepository(t)
		sessions.On("RevokeSession", mock.Anything, "missing").Return(false, auth.ErrNotFound)
		uc, err := auth.NewRevokeSession(sessions)
		require.NoError(t, err)

		out, err := uc.Execute(ctx, auth.RevokeSessionInput{SessionID: "missing"})
		require.NoError(t, err)
		assert.Equal(t, "missing", out.SessionID)
	})

	t.Run("id wins over hash", func(t *testing.T) {
		sessions := mocks.NewMockSessionRepository(t)
		sessions.On("RevokeSession", mock.Anything, "sess-1").Return(true, nil)
		uc, err := auth.NewRevokeSession(sessions)
		require.NoError(t, err)

		_, err = uc.Execute(ctx, auth.RevokeSessionInput{SessionID: "sess-1", RefreshTokenHash: "abc"})
		require.NoError(t, err)
		sessions.AssertNotCalled(t, "FindByRefreshTokenHash", mock.Anything, mock.Anything)
	})

	t.Run("by refresh token hash", func(t *testing.T) {
		sessions := mocks.NewMockSessionRepository(t)
		hash := auth.HashRefreshToken("refresh-1")
		sessions.On("FindByRefreshTokenHash", mock.Anything, hash).Return(liveSession(), nil)
		sessions.On("RevokeSession", mock.Anything, "sess-1").Return(true, nil)
		recorder := mocks.NewMockRecorder(t)
		recorder.On("SessionsRevoked", int64(1)).Once()
		uc, err := auth.NewRevokeSession(sessions, auth.WithRecorder(recorder))
		require.NoError(t, err)

		out, err := uc.Execute(ctx, auth.RevokeSessionInput{RefreshTokenHash: hash})
		require.NoError(t, err)
		assert.Equal(t, "sess-1", out.SessionID)
	})

	t.Run("unknown refresh token hash", func(t *testing.T) {
		sessions := mocks.NewMockSessionRepository(t)
		sessions.On("FindByRefreshTokenHash", mock.Anything, "nope").Return(nil, auth.ErrNotFound)
		uc, err := auth.NewRevokeSession(sessions)
		require.NoError(t, err)

		_, err = uc.Execute(ctx, auth.RevokeSessionInput{RefreshTokenHash: "nope"})
		errutil.AssertErrorCode(t, err, "AUTH_USER_NOT_FOUND")
	})

	t.Run("store failure", func(t *testing.T) {
		sessions := mocks.NewMockSessionRepository(t)
		sessions.On("RevokeSession", mock.Anything, "sess-1").Return(false, errors.New("down"))
		uc, err := auth.NewRevokeSession(sessions)
		require.NoError(t, err)

		_, err = uc.Execute(ctx, auth.RevokeSessionInput{SessionID: "sess-1"})
		errutil.AssertErrorCode(t, err, "INVARIANT_DEPENDENCY_UNAVAILABLE")
	})
}

func TestRevokeAllSessions(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes", func(t *testing.T) {
		sessions := mocks.NewMockSessionRepository(t)
		sessions.On("RevokeAllForUser", mock.Anything, "user-1").Return(int64(3), nil)
		uc, err := auth.NewRevokeAllSessions(sessions)
		require.NoError(t, err)

		out, err := uc.Execute(ctx, auth.RevokeAllSessionsInput{UserID: "user-1"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), out.Revoked)
	})

	t.Run("requires user", func(t *testing.T) {
		uc, err := auth.NewRevokeAllSessions(mocks.NewMockSessionRepository(t))
		require.NoError(t, err)

		_, err = uc.Execute(ctx, auth.RevokeAllSessionsInput{})
		errutil.AssertErrorCode(t, err, "INVARIANT_VIOLATED")
	})

	t.Run("nil port", func(t *testing.T) {
		_, err := auth.NewRevokeAllSessions(nil)
		errutil.AssertErrorCode(t, err, "INVARIANT_INVALID_CONFIGURATION")
	})
}
