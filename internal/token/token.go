// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package token holds the token vocabulary of the authentication core.
// Tokens are opaque strings; the core never decodes them. Signing and
// encoding are the token service's concern.
package token

import (
	"fmt"
	"log/slog"
	"time"
)

// Token is an opaque trust artifact. Formatting never reveals its value.
type Token struct {
	value string
}

// New wraps a token string.
func New(value string) Token {
	return Token{value: value}
}

// Value returns the raw token string.
func (t Token) Value() string { return t.value }

// Len returns the length of the raw token.
func (t Token) Len() int { return len(t.value) }

// IsEmpty reports whether the token is empty.
func (t Token) IsEmpty() bool { return t.value == "" }

func (t Token) String() string { return "Token(****)" }

// GoString keeps %#v from printing the value.
func (t Token) GoString() string { return t.String() }

// Format keeps every fmt verb from printing the value.
func (t Token) Format(s fmt.State, _ rune) {
	_, _ = fmt.Fprint(s, t.String())
}

// LogValue implements slog.LogValuer.
func (t Token) LogValue() slog.Value { return slog.StringValue(t.String()) }

// FormatTimestamp renders t as RFC3339 in UTC. Timestamps produced this way
// sort lexicographically in chronological order.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
