// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package autherr

import "fmt"

// AuthenticationKind enumerates the reasons identity could not be proven.
type AuthenticationKind int

// Authentication failure reasons.
const (
	KindUserNotFound AuthenticationKind = iota + 1
	KindMaxAttemptsExceeded
	KindUnsupportedAuthMethod
	KindIncompleteFlow
	KindAccountLocked
	KindExternalProviderRejected
)

// AuthenticationError reports that identity could not be proven.
type AuthenticationError struct {
	Kind AuthenticationKind
	// Reason carries the free-text detail. For KindUnsupportedAuthMethod it
	// holds the method, for KindIncompleteFlow the stage.
	Reason   string
	Attempts uint32
	Provider string
}

// UserNotFound builds a KindUserNotFound error.
func UserNotFound(reason string) AuthenticationError {
	return AuthenticationError{Kind: KindUserNotFound, Reason: reason}
}

// MaxAttemptsExceeded builds a KindMaxAttemptsExceeded error.
func MaxAttemptsExceeded(attempts uint32) AuthenticationError {
	return AuthenticationError{Kind: KindMaxAttemptsExceeded, Attempts: attempts}
}

// UnsupportedAuthMethod builds a KindUnsupportedAuthMethod error.
func UnsupportedAuthMethod(method string) AuthenticationError {
	return AuthenticationError{Kind: KindUnsupportedAuthMethod, Reason: method}
}

// IncompleteFlow builds a KindIncompleteFlow error.
func IncompleteFlow(stage string) AuthenticationError {
	return AuthenticationError{Kind: KindIncompleteFlow, Reason: stage}
}

// AccountLocked builds a KindAccountLocked error.
func AccountLocked(reason string) AuthenticationError {
	return AuthenticationError{Kind: KindAccountLocked, Reason: reason}
}

// ExternalProviderRejected builds a KindExternalProviderRejected error.
func ExternalProviderRejected(provider, reason string) AuthenticationError {
	return AuthenticationError{Kind: KindExternalProviderRejected, Provider: provider, Reason: reason}
}

// IsAccountLocked reports whether the failure is a lockout.
func (e AuthenticationError) IsAccountLocked() bool {
	return e.Kind == KindAccountLocked
}

func (e AuthenticationError) Error() string {
	switch e.Kind {
	case KindUserNotFound:
		return "User not found: " + e.Reason
	case KindMaxAttemptsExceeded:
		return fmt.Sprintf("Maximum authentication attempts exceeded: %d", e.Attempts)
	case KindUnsupportedAuthMethod:
		return "Authentication method not supported: " + e.Reason
	case KindIncompleteFlow:
		return "Authentication flow incomplete at stage: " + e.Reason
	case KindAccountLocked:
		return "Account is locked: " + e.Reason
	case KindExternalProviderRejected:
		return fmt.Sprintf("External identity provider '%s' rejected authentication: %s", e.Provider, e.Reason)
	default:
		return "Authentication failed: " + e.Reason
	}
}

// Code returns the machine-readable code.
func (e AuthenticationError) Code() string {
	switch e.Kind {
	case KindUserNotFound:
		return "AUTH_USER_NOT_FOUND"
	case KindMaxAttemptsExceeded:
		return "AUTH_MAX_ATTEMPTS_EXCEEDED"
	case KindUnsupportedAuthMethod:
		return "AUTH_UNSUPPORTED_METHOD"
	case KindIncompleteFlow:
		return "AUTH_INCOMPLETE_FLOW"
	case KindAccountLocked:
		return "AUTH_ACCOUNT_LOCKED"
	case KindExternalProviderRejected:
		return "AUTH_PROVIDER_REJECTED"
	default:
		return "AUTH_FAILED"
	}
}

func (AuthenticationError) category() Category { return CategoryAuthentication }
