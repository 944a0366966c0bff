// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"time"

	"github.com/samber/oops"
)

// Default lockout and token settings.
const (
	DefaultMaxAttempts  = 5
	DefaultLockDuration = 30 * time.Minute

	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// LockoutPolicy governs how many consecutive failures lock an account and
// for how long.
type LockoutPolicy struct {
	MaxAttempts    uint32
	LockDuration   time.Duration
	ResetOnSuccess bool
}

// DefaultLockoutPolicy locks after 5 failures for 30 minutes.
func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{
		MaxAttempts:    DefaultMaxAttempts,
		LockDuration:   DefaultLockDuration,
		ResetOnSuccess: true,
	}
}

// IsLocked reports whether failedAttempts reaches the threshold.
func (p LockoutPolicy) IsLocked(failedAttempts uint32) bool {
	return failedAttempts >= p.MaxAttempts
}

// LockExpiry returns when a lock placed at now ends.
func (p LockoutPolicy) LockExpiry(now time.Time) time.Time {
	return now.Add(p.LockDuration)
}

// Validate rejects a policy that would lock on the first attempt or never unlock.
func (p LockoutPolicy) Validate() error {
	if p.MaxAttempts == 0 {
		return oops.Code("POLICY_INVALID").With("field", "max_attempts").Errorf("max attempts must be positive")
	}
	if p.LockDuration <= 0 {
		return oops.Code("POLICY_INVALID").With("field", "lock_duration").Errorf("lock duration must be positive")
	}
	return nil
}

// TokenPolicy governs token lifetimes and refresh rotation.
type TokenPolicy struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// OneTimeRefresh enables refresh token rotation: each refresh token can be
	// exchanged once and is replaced by a new one.
	OneTimeRefresh bool
}

// DefaultTokenPolicy uses a 15 minute access TTL, a 7 day refresh TTL and
// rotation.
func DefaultTokenPolicy() TokenPolicy {
	return TokenPolicy{
		AccessTTL:      DefaultAccessTTL,
		RefreshTTL:     DefaultRefreshTTL,
		OneTimeRefresh: true,
	}
}

// AccessTTLSeconds returns the access TTL in whole seconds.
func (p TokenPolicy) AccessTTLSeconds() uint64 {
	return uint64(p.AccessTTL / time.Second)
}

// Validate rejects non-positive TTLs and an access TTL longer than the refresh TTL.
func (p TokenPolicy) Validate() error {
	if p.AccessTTL < time.Second {
		return oops.Code("POLICY_INVALID").With("field", "access_ttl").Errorf("access TTL must be at least one second")
	}
	if p.RefreshTTL < time.Second {
		return oops.Code("POLICY_INVALID").With("field", "refresh_ttl").Errorf("refresh TTL must be at least one second")
	}
	if p.AccessTTL > p.RefreshTTL {
		return oops.Code("POLICY_INVALID").
			With("access_ttl", p.AccessTTL).
			With("refresh_ttl", p.RefreshTTL).
			Errorf("access TTL cannot exceed refresh TTL")
	}
	return nil
}
