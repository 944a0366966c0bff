// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package credential

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/holomush/authcore/internal/autherr"
)

const redacted = "[REDACTED]"

// noCopy makes `go vet` flag value copies of the embedding struct.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// RawCredential is a transient plaintext secret. Pass it by pointer and hand
// it to exactly one consumer via IntoInner; after that the value is empty.
type RawCredential struct {
	noCopy noCopy
	secret []byte
	spent  bool
}

// NewRawCredential takes ownership of secret.
func NewRawCredential(secret string) *RawCredential {
	return &RawCredential{secret: []byte(secret)}
}

// AsString returns the secret for read-only validation.
func (r *RawCredential) AsString() string {
	return string(r.secret)
}

// Len returns the secret length in bytes.
func (r *RawCredential) Len() int {
	return len(r.secret)
}

// Consumed reports whether IntoInner has been called.
func (r *RawCredential) Consumed() bool {
	return r.spent
}

// IntoInner transfers the secret to the caller and wipes the credential.
// Subsequent calls return "".
func (r *RawCredential) IntoInner() string {
	if r.spent {
		return ""
	}
	s := string(r.secret)
	for i := range r.secret {
		r.secret[i] = 0
	}
	r.secret = nil
	r.spent = true
	return s
}

// Validate checks the secret against policy. It never hashes or logs.
func (r *RawCredential) Validate(policy Policy) error {
	if len(r.secret) == 0 {
		return autherr.New(autherr.MissingRequired("secret"))
	}
	if len(r.secret) < policy.MinLength {
		return autherr.New(autherr.InsufficientStrength("minimum length is " + strconv.Itoa(policy.MinLength)))
	}
	if policy.FormatCheck != nil && !policy.FormatCheck(string(r.secret)) {
		return autherr.New(autherr.InvalidFormat("credential", "format check failed"))
	}
	return nil
}

func (r *RawCredential) String() string { return "RawCredential(" + redacted + ")" }

// GoString keeps %#v from printing the secret.
func (r *RawCredential) GoString() string { return r.String() }

// Format keeps every fmt verb from printing the secret.
func (r *RawCredential) Format(s fmt.State, _ rune) {
	_, _ = fmt.Fprint(s, r.String())
}

// LogValue implements slog.LogValuer.
func (r *RawCredential) LogValue() slog.Value {
	return slog.StringValue(redacted)
}
