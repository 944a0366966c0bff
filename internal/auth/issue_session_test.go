// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/auth/mocks"
	"github.com/holomush/authcore/internal/identity"
	"github.com/holomush/authcore/internal/token"
	"github.com/holomush/authcore/pkg/errutil"
)

func sequentialIDs(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func testTokenPolicy(rotate bool) auth.TokenPolicy {
	return auth.TokenPolicy{AccessTTL: 15 * time.Minute, RefreshTTL: 7 * 24 * time.Hour, OneTimeRefresh: rotate}
}

func TestIssueSession_Success(t *testing.T) {
	sessions := mocks.NewMockSessionRepository(t)
	tokens := mocks.NewMockTokenService(t)

	accessClaims := `{"sub":"user-1","type":"access","exp":1777637700,"sid":"sess-1"}`
	refreshClaims := `{"sub":"user-1","type":"refresh","exp":1778241600,"sid":"sess-1"}`
	tokens.On("IssueAccessToken", "user-1", accessClaims).Return(token.New("access-1"), nil)
	tokens.On("IssueRefreshToken", "user-1", refreshClaims).Return(token.New("refresh-1"), nil)

	var saved *auth.Session
	sessions.On("CreateSession", mock.Anything, mock.AnythingOfType("*auth.Session")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*auth.Session) }).
		Return(nil)

	recorder := mocks.NewMockRecorder(t)
	recorder.On("SessionIssued").Once()

	uc, err := auth.NewIssueSession(sessions, tokens, testTokenPolicy(true),
		auth.WithClock(auth.NewFixedClock(testNow)),
		auth.WithSessionIDGenerator(sequentialIDs("sess-1")),
		auth.WithRecorder(recorder))
	require.NoError(t, err)

	out, err := uc.Execute(context.Background(), auth.IssueSessionInput{
		User:      identity.NewUserIdentity("user-1"),
		IPAddress: "203.0.113.7",
		UserAgent: "curl/8.0",
	})
	require.NoError(t, err)

	assert.Equal(t, token.New("access-1"), out.AccessToken)
	assert.Equal(t, token.New("refresh-1"), out.RefreshToken)
	assert.Equal(t, "sess-1", out.SessionID)
	assert.Equal(t, uint64(900), out.ExpiresIn)

	require.NotNil(t, saved)
	assert.Equal(t, "sess-1", saved.ID)
	assert.Equal(t, "user-1", saved.UserID)
	assert.Equal(t, auth.HashRefreshToken("refresh-1"), saved.RefreshTokenHash)
	assert.NotEqual(t, "refresh-1", saved.RefreshTokenHash)
	assert.Equal(t, "203.0.113.7", saved.IPAddress)
	assert.Equal(t, "curl/8.0", saved.UserAgent)
	assert.Equal(t, testNow, saved.CreatedAt)
	assert.Equal(t, testNow.Add(7*24*time.Hour), saved.ExpiresAt)
	assert.Nil(t, saved.RevokedAt)
}

func TestIssueSession_Failures(t *testing.T) {
	boom := errors.New("unavailable")
	user := identity.NewUserIdentity("user-1")

	t.Run("zero user is a contract violation", func(t *testing.T) {
		uc, err := auth.NewIssueSession(mocks.NewMockSessionRepository(t), mocks.NewMockTokenService(t), testTokenPolicy(true))
		require.NoError(t, err)

		_, err = uc.Execute(context.Background(), auth.IssueSessionInput{})
		errutil.AssertErrorCode(t, err, "INVARIANT_VIOLATED")
	})

	t.Run("token service failure", func(t *testing.T) {
		tokens := mocks.NewMockTokenService(t)
		tokens.On("IssueAccessToken", "user-1", mock.Anything).Return(token.Token{}, boom)
		uc, err := auth.NewIssueSession(mocks.NewMockSessionRepository(t), tokens, testTokenPolicy(true))
		require.NoError(t, err)

		_, err = uc.Execute(context.Background(), auth.IssueSessionInput{User: user})
		errutil.AssertErrorCode(t, err, "INVARIANT_DEPENDENCY_UNAVAILABLE")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("session store failure", func(t *testing.T) {
		tokens := mocks.NewMockTokenService(t)
		tokens.On("IssueAccessToken", "user-1", mock.Anything).Return(token.New("a"), nil)
		tokens.On("IssueRefreshToken", "user-1", mock.Anything).Return(token.New("r"), nil)
		sessions := mocks.NewMockSessionRepository(t)
		sessions.On("CreateSession", mock.Anything, mock.Anything).Return(boom)
		uc, err := auth.NewIssueSession(sessions, tokens, testTokenPolicy(true))
		require.NoError(t, err)

		_, err = uc.Execute(context.Background(), auth.IssueSessionInput{User: user})
		errutil.AssertErrorCode(t, err, "INVARIANT_DEPENDENCY_UNAVAILABLE")
	})
}

func TestNewIssueSession_Validation(t *testing.T) {
	_, err := auth.NewIssueSession(nil, mocks.NewMockTokenService(t), testTokenPolicy(true))
	errutil.AssertErrorCode(t, err, "INVARIANT_INVALID_CONFIGURATION")

	_, err = auth.NewIssueSession(mocks.NewMockSessionRepository(t), mocks.NewMockTokenService(t), auth.TokenPolicy{})
	errutil.AssertErrorCode(t, err, "INVARIANT_INVALID_CONFIGURATION")
}
