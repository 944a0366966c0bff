// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package token

// Lifetime is a token's validity window. All fields are RFC3339 strings with
// a fixed UTC offset and are compared lexicographically. NotBefore is optional.
type Lifetime struct {
	IssuedAt  string
	ExpiresAt string
	NotBefore string
}

// NewLifetime builds a lifetime without a not-before bound.
func NewLifetime(issuedAt, expiresAt string) Lifetime {
	return Lifetime{IssuedAt: issuedAt, ExpiresAt: expiresAt}
}

// WithNotBefore returns a copy with the not-before bound set.
func (l Lifetime) WithNotBefore(notBefore string) Lifetime {
	l.NotBefore = notBefore
	return l
}

// IsExpired reports ref >= expires_at. A zero-length window is expired at
// its own instant.
func (l Lifetime) IsExpired(ref string) bool {
	return ref >= l.ExpiresAt
}

// IsNotYetValid reports ref < issued_at or ref < not_before.
func (l Lifetime) IsNotYetValid(ref string) bool {
	if ref < l.IssuedAt {
		return true
	}
	return l.NotBefore != "" && ref < l.NotBefore
}

// IsTemporallyValid reports that the token is neither expired nor not yet valid.
func (l Lifetime) IsTemporallyValid(ref string) bool {
	return !l.IsExpired(ref) && !l.IsNotYetValid(ref)
}

// ValidFrom returns not_before when set, otherwise issued_at.
func (l Lifetime) ValidFrom() string {
	if l.NotBefore != "" {
		return l.NotBefore
	}
	return l.IssuedAt
}

// ValidUntil returns expires_at.
func (l Lifetime) ValidUntil() string {
	return l.ExpiresAt
}

// Check returns the failure for ref, or nil when the lifetime is valid.
// Expiry is reported before not-yet-valid.
func (l Lifetime) Check(ref string) *ValidationFailure {
	if l.IsExpired(ref) {
		f := Expired(l.ExpiresAt)
		return &f
	}
	if l.IsNotYetValid(ref) {
		f := NotYetValid(l.ValidFrom())
		return &f
	}
	return nil
}
