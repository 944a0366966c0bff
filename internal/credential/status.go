// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package credential

import "github.com/holomush/authcore/internal/autherr"

// State is the lifecycle state of a credential.
type State int

// Credential states. Only StateActive is verifiable.
const (
	StateActive State = iota
	StateRevoked
	StateExpired
	StateNotYetValid
)

// Status is a computed credential state plus its explanatory timestamp.
// The zero value is Active.
type Status struct {
	State State
	// At is revoked_at, expired_at or valid_from depending on State.
	At string
}

// Active returns the active status.
func Active() Status { return Status{State: StateActive} }

// Revoked returns a revoked status.
func Revoked(revokedAt string) Status { return Status{State: StateRevoked, At: revokedAt} }

// Expired returns an expired status.
func Expired(expiredAt string) Status { return Status{State: StateExpired, At: expiredAt} }

// NotYetValid returns a not-yet-valid status.
func NotYetValid(validFrom string) Status { return Status{State: StateNotYetValid, At: validFrom} }

// IsActive reports whether the credential may be verified.
func (s Status) IsActive() bool { return s.State == StateActive }

// EnsureVerifiable fails for every state except Active.
func (s Status) EnsureVerifiable() error {
	switch s.State {
	case StateActive:
		return nil
	case StateRevoked:
		return autherr.New(autherr.CredentialRevoked(s.At))
	case StateExpired:
		return autherr.New(autherr.CredentialExpired(s.At))
	case StateNotYetValid:
		return autherr.New(autherr.CredentialNotYetValid(s.At))
	default:
		return autherr.New(autherr.UnreachableCode("credential.Status.EnsureVerifiable"))
	}
}

func (s Status) String() string {
	switch s.State {
	case StateActive:
		return "active"
	case StateRevoked:
		return "revoked"
	case StateExpired:
		return "expired"
	case StateNotYetValid:
		return "not_yet_valid"
	default:
		return "unknown"
	}
}
