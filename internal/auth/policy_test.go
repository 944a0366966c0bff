// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/pkg/errutil"
)

func TestLockoutPolicy(t *testing.T) {
	p := auth.DefaultLockoutPolicy()

	assert.False(t, p.IsLocked(4))
	assert.True(t, p.IsLocked(5))
	assert.True(t, p.IsLocked(6))
	assert.Equal(t, testNow.Add(30*time.Minute), p.LockExpiry(testNow))
	assert.NoError(t, p.Validate())
}

func TestLockoutPolicy_Validate(t *testing.T) {
	errutil.AssertErrorCode(t, auth.LockoutPolicy{LockDuration: time.Minute}.Validate(), "POLICY_INVALID")
	errutil.AssertErrorContext(t, auth.LockoutPolicy{MaxAttempts: 3}.Validate(), "field", "lock_duration")
}

func TestTokenPolicy(t *testing.T) {
	p := auth.DefaultTokenPolicy()
	assert.Equal(t, uint64(900), p.AccessTTLSeconds())
	assert.True(t, p.OneTimeRefresh)
	assert.NoError(t, p.Validate())
}

func TestTokenPolicy_Validate(t *testing.T) {
	tests := []struct {
		name   string
		policy auth.TokenPolicy
	}{
		{"zero access", auth.TokenPolicy{RefreshTTL: time.Hour}},
		{"zero refresh", auth.TokenPolicy{AccessTTL: time.Minute}},
		{"access longer than refresh", auth.TokenPolicy{AccessTTL: 2 * time.Hour, RefreshTTL: time.Hour}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errutil.AssertErrorCode(t, tt.policy.Validate(), "POLICY_INVALID")
		})
	}
}
