// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package autherr

import "fmt"

// CredentialKind enumerates the reasons a credential is invalid.
type CredentialKind int

// Credential failure reasons.
const (
	KindMissingRequired CredentialKind = iota + 1
	KindInvalidFormat
	KindCredentialExpired
	KindCredentialNotYetValid
	KindTypeMismatch
	KindVerificationFailed
	KindCredentialRevoked
	KindInsufficientStrength
)

// CredentialError reports that a credential itself is invalid.
type CredentialError struct {
	Kind CredentialKind
	// Field names the missing field for KindMissingRequired and the credential
	// type for KindInvalidFormat.
	Field  string
	Reason string
	// At is the RFC3339 timestamp carried by the expired, not-yet-valid and
	// revoked variants.
	At       string
	Expected string
	Actual   string
}

// MissingRequired builds a KindMissingRequired error.
func MissingRequired(field string) CredentialError {
	return CredentialError{Kind: KindMissingRequired, Field: field}
}

// InvalidFormat builds a KindInvalidFormat error.
func InvalidFormat(credentialType, reason string) CredentialError {
	return CredentialError{Kind: KindInvalidFormat, Field: credentialType, Reason: reason}
}

// CredentialExpired builds a KindCredentialExpired error.
func CredentialExpired(expiredAt string) CredentialError {
	return CredentialError{Kind: KindCredentialExpired, At: expiredAt}
}

// CredentialNotYetValid builds a KindCredentialNotYetValid error.
func CredentialNotYetValid(validFrom string) CredentialError {
	return CredentialError{Kind: KindCredentialNotYetValid, At: validFrom}
}

// TypeMismatch builds a KindTypeMismatch error.
func TypeMismatch(expected, actual string) CredentialError {
	return CredentialError{Kind: KindTypeMismatch, Expected: expected, Actual: actual}
}

// VerificationFailed builds a KindVerificationFailed error.
func VerificationFailed(reason string) CredentialError {
	return CredentialError{Kind: KindVerificationFailed, Reason: reason}
}

// CredentialRevoked builds a KindCredentialRevoked error.
func CredentialRevoked(revokedAt string) CredentialError {
	return CredentialError{Kind: KindCredentialRevoked, At: revokedAt}
}

// InsufficientStrength builds a KindInsufficientStrength error.
func InsufficientStrength(reason string) CredentialError {
	return CredentialError{Kind: KindInsufficientStrength, Reason: reason}
}

func (e CredentialError) Error() string {
	switch e.Kind {
	case KindMissingRequired:
		return "Missing required field: " + e.Field
	case KindInvalidFormat:
		return fmt.Sprintf("Invalid %s format: %s", e.Field, e.Reason)
	case KindCredentialExpired:
		return "Credential expired at: " + e.At
	case KindCredentialNotYetValid:
		return "Credential not valid until: " + e.At
	case KindTypeMismatch:
		return fmt.Sprintf("Type mismatch: expected %s, got %s", e.Expected, e.Actual)
	case KindVerificationFailed:
		return "Credential verification failed: " + e.Reason
	case KindCredentialRevoked:
		return "Credential revoked at: " + e.At
	case KindInsufficientStrength:
		return "Credential strength insufficient: " + e.Reason
	default:
		return "Credential invalid: " + e.Reason
	}
}

// Code returns the machine-readable code.
func (e CredentialError) Code() string {
	switch e.Kind {
	case KindMissingRequired:
		return "CREDENTIAL_MISSING_REQUIRED"
	case KindInvalidFormat:
		return "CREDENTIAL_INVALID_FORMAT"
	case KindCredentialExpired:
		return "CREDENTIAL_EXPIRED"
	case KindCredentialNotYetValid:
		return "CREDENTIAL_NOT_YET_VALID"
	case KindTypeMismatch:
		return "CREDENTIAL_TYPE_MISMATCH"
	case KindVerificationFailed:
		return "CREDENTIAL_VERIFICATION_FAILED"
	case KindCredentialRevoked:
		return "CREDENTIAL_REVOKED"
	case KindInsufficientStrength:
		return "CREDENTIAL_INSUFFICIENT_STRENGTH"
	default:
		return "CREDENTIAL_INVALID"
	}
}

func (CredentialError) category() Category { return CategoryCredential }
