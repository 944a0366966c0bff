// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package argon2 implements auth.PasswordHasher with argon2id.
package argon2

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/credential"
)

// Params are the argon2id cost parameters.
type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

// DefaultParams returns the OWASP-recommended argon2id parameters.
func DefaultParams() Params {
	return Params{
		Time:    1,
		Memory:  64 * 1024,
		Threads: 4,
		SaltLen: 16,
		KeyLen:  32,
	}
}

// ErrEmptyPassword is returned when attempting to hash an empty password.
var ErrEmptyPassword = oops.Code("HASH_EMPTY_PASSWORD").Errorf("password cannot be empty")

// Hasher hashes passwords into PHC strings:
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
type Hasher struct {
	params Params
}

var _ auth.PasswordHasher = (*Hasher)(nil)

// NewHasher creates a Hasher with the default parameters.
func NewHasher() *Hasher {
	return &Hasher{params: DefaultParams()}
}

// NewHasherWithParams creates a Hasher with custom parameters. Tests use
// cheap parameters to stay fast.
func NewHasherWithParams(p Params) *Hasher {
	return &Hasher{params: p}
}

// Hash consumes raw and produces its argon2id hash.
func (h *Hasher) Hash(raw *credential.RawCredential) (*credential.StoredCredential, error) {
	if raw == nil || raw.Len() == 0 {
		return nil, ErrEmptyPassword
	}

	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, oops.Code("HASH_SALT_FAILED").Wrap(err)
	}

	key := argon2.IDKey([]byte(raw.IntoInner()), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return credential.FromHash(encoded), nil
}

// Verify reports whether raw matches stored. The parameters encoded in the
// stored hash are used, not the hasher's own.
func (h *Hasher) Verify(raw string, stored *credential.StoredCredential) bool {
	if stored == nil || !stored.IsNonEmpty() {
		return false
	}
	decoded, err := decode(stored.HashForVerification())
	if err != nil {
		return false
	}
	computed := argon2.IDKey([]byte(raw), decoded.salt, decoded.params.Time, decoded.params.Memory, decoded.params.Threads, decoded.params.KeyLen)
	return subtle.ConstantTimeCompare(computed, decoded.key) == 1
}

// NeedsRehash reports whether stored was produced with parameters other than
// the hasher's current ones, or is not argon2id at all.
func (h *Hasher) NeedsRehash(stored *credential.StoredCredential) bool {
	decoded, err := decode(stored.HashForVerification())
	if err != nil {
		return true
	}
	p := decoded.params
	return p.Time != h.params.Time || p.Memory != h.params.Memory || p.Threads != h.params.Threads ||
		p.KeyLen != h.params.KeyLen
}

type decodedHash struct {
	params Params
	salt   []byte
	key    []byte
}

func decode(encoded string) (*decodedHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return nil, oops.Code("HASH_INVALID").Errorf("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return nil, oops.Code("HASH_INVALID").Errorf("unsupported hash algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, oops.Code("HASH_INVALID").Wrap(err)
	}
	if version != argon2.Version {
		return nil, oops.Code("HASH_INVALID").With("version", version).Errorf("unsupported argon2 version")
	}

	var memory, iterations, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return nil, oops.Code("HASH_INVALID").Wrap(err)
	}
	// threads must fit in uint8
	if threads == 0 || threads > 255 {
		return nil, oops.Code("HASH_INVALID").Errorf("threads value %d out of range", threads)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, oops.Code("HASH_INVALID").Wrap(err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, oops.Code("HASH_INVALID").Wrap(err)
	}
	if len(key) == 0 || len(key) > 1<<30 {
		return nil, oops.Code("HASH_INVALID").Errorf("invalid hash key length: %d", len(key))
	}

	return &decodedHash{
		params: Params{
			Time:    iterations,
			Memory:  memory,
			Threads: uint8(threads),
			SaltLen: uint32(len(salt)),
			KeyLen:  uint32(len(key)),
		},
		salt: salt,
		key:  key,
	}, nil
}
