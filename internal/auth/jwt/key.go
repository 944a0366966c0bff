// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package jwt

import (
	"crypto/rand"
	"encoding/base64"
	"strings"

	"github.com/samber/oops"
)

// KeySize is the HMAC-SHA256 key length in bytes.
const KeySize = 32

// DecodeKey decodes a base64url signing key, with or without padding, and
// checks its length.
func DecodeKey(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, oops.Code("JWT_KEY_INVALID").Errorf("signing key is empty")
	}
	key, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(encoded, "="))
	if err != nil {
		return nil, oops.Code("JWT_KEY_INVALID").Wrapf(err, "signing key is not base64url")
	}
	if len(key) != KeySize {
		return nil, oops.Code("JWT_KEY_INVALID").
			With("length", len(key)).
			Errorf("signing key must be %d bytes", KeySize)
	}
	return key, nil
}

// GenerateKey returns a new random key, base64url encoded without padding.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", oops.Code("JWT_KEY_GENERATE_FAILED").Wrap(err)
	}
	return base64.RawURLEncoding.EncodeToString(key), nil
}
