// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package token

import (
	"encoding/json"
	"time"
)

// Type is the declared purpose of a session token.
type Type string

// Session token types as they appear in the "type" claim.
const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

// SessionClaims is the payload exchanged with a token service. The field
// names are an interop contract with already-issued tokens and must not
// change.
type SessionClaims struct {
	Sub  string `json:"sub"`
	Type Type   `json:"type"`
	// Exp is the expiry in Unix seconds.
	Exp int64  `json:"exp"`
	Sid string `json:"sid,omitempty"`
}

// NewSessionClaims builds claims expiring at exp.
func NewSessionClaims(sub string, typ Type, exp time.Time, sid string) SessionClaims {
	return SessionClaims{Sub: sub, Type: typ, Exp: exp.Unix(), Sid: sid}
}

// Encode renders the claims as JSON.
func (c SessionClaims) Encode() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", err //nolint:wrapcheck // caller maps to the taxonomy
	}
	return string(data), nil
}

// DecodeSessionClaims parses a claims payload. Unknown fields are ignored.
func DecodeSessionClaims(payload string) (SessionClaims, error) {
	var c SessionClaims
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return SessionClaims{}, err //nolint:wrapcheck // caller maps to the taxonomy
	}
	return c, nil
}

// ExpiresAt returns Exp as a time.
func (c SessionClaims) ExpiresAt() time.Time {
	return time.Unix(c.Exp, 0).UTC()
}

// IsExpiredAt reports now >= exp.
func (c SessionClaims) IsExpiredAt(now time.Time) bool {
	return now.Unix() >= c.Exp
}
