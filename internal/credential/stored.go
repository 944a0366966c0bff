// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package credential

import (
	"fmt"
	"log/slog"
	"time"
)

// StoredCredential is the persisted form of a credential. The hash is opaque:
// callers may ask whether it is present and how long it is, nothing more.
type StoredCredential struct {
	repr           string
	failedAttempts uint32
	lockedUntil    string
}

// FromHash builds a credential with no failed attempts and no lock.
func FromHash(hash string) *StoredCredential {
	return &StoredCredential{repr: hash}
}

// FromParts rebuilds a credential from storage. lockedUntil is an RFC3339
// timestamp or "" when the account is not locked.
func FromParts(hash string, failedAttempts uint32, lockedUntil string) *StoredCredential {
	return &StoredCredential{repr: hash, failedAttempts: failedAttempts, lockedUntil: lockedUntil}
}

// HashForVerification returns the stored hash. Only password hashers and
// storage adapters call this.
func (c *StoredCredential) HashForVerification() string {
	return c.repr
}

// IsNonEmpty reports whether a hash is present.
func (c *StoredCredential) IsNonEmpty() bool {
	return c.repr != ""
}

// ReprLen returns the hash length for diagnostics.
func (c *StoredCredential) ReprLen() int {
	return len(c.repr)
}

// FailedAttempts returns the consecutive failed attempt count.
func (c *StoredCredential) FailedAttempts() uint32 {
	return c.failedAttempts
}

// LockedUntil returns the lock timestamp, if any.
func (c *StoredCredential) LockedUntil() (string, bool) {
	return c.lockedUntil, c.lockedUntil != ""
}

// IsLockedAt reports whether the lock timestamp is still in the future at now.
// An unparseable timestamp counts as locked.
func (c *StoredCredential) IsLockedAt(now time.Time) bool {
	if c.lockedUntil == "" {
		return false
	}
	until, err := time.Parse(time.RFC3339, c.lockedUntil)
	if err != nil {
		return true
	}
	return now.Before(until)
}

func (c *StoredCredential) String() string { return "StoredCredential(" + redacted + ")" }

// GoString keeps %#v from printing the hash.
func (c *StoredCredential) GoString() string { return c.String() }

// Format keeps every fmt verb from printing the hash.
func (c *StoredCredential) Format(s fmt.State, _ rune) {
	_, _ = fmt.Fprint(s, c.String())
}

// LogValue implements slog.LogValuer.
func (c *StoredCredential) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("repr_len", len(c.repr)),
		slog.Any("failed_attempts", c.failedAttempts),
		slog.String("locked_until", c.lockedUntil),
	)
}
