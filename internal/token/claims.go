// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package token

import "github.com/holomush/authcore/internal/identity"

// Claims are the assertions carried by a token. Scopes are informational
// context only and never grant anything.
type Claims struct {
	Identity  identity.IdentityClaims `json:"identity"`
	IssuedAt  string                  `json:"issued_at"`
	ExpiresAt string                  `json:"expires_at"`
	NotBefore string                  `json:"not_before,omitempty"`
	Scopes    []string                `json:"scopes,omitempty"`
}

// NewClaims builds claims with no not-before and no scopes.
func NewClaims(id identity.IdentityClaims, issuedAt, expiresAt string) Claims {
	return Claims{Identity: id, IssuedAt: issuedAt, ExpiresAt: expiresAt}
}

// WithNotBefore returns a copy with the not-before timestamp set.
func (c Claims) WithNotBefore(notBefore string) Claims {
	c.NotBefore = notBefore
	return c
}

// WithScopes returns a copy with the given scopes.
func (c Claims) WithScopes(scopes ...string) Claims {
	c.Scopes = append([]string(nil), scopes...)
	return c
}

// HasIdentity reports whether either identity side is present.
func (c Claims) HasIdentity() bool { return !c.Identity.IsEmpty() }

// HasScopes reports whether any scope is present.
func (c Claims) HasScopes() bool { return len(c.Scopes) > 0 }

// Lifetime returns the temporal part of the claims.
func (c Claims) Lifetime() Lifetime {
	return Lifetime{IssuedAt: c.IssuedAt, ExpiresAt: c.ExpiresAt, NotBefore: c.NotBefore}
}
