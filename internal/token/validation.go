// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package token

import "github.com/holomush/authcore/internal/autherr"

// FailureKind is the closed set of semantic token validation failures.
type FailureKind int

// Validation failure kinds.
const (
	FailureMalformed FailureKind = iota + 1
	FailureSignatureInvalid
	FailureInvalidClaims
	FailureExpired
	FailureNotYetValid
	FailureIssuerMismatch
	FailureAudienceMismatch
	FailureRevoked
)

// ValidationFailure describes why a token failed validation. Every failure
// converts 1:1 into an autherr.TokenError.
type ValidationFailure struct {
	Kind     FailureKind
	Reason   string
	At       string
	Expected string
	Actual   string
}

// Malformed builds a FailureMalformed.
func Malformed(reason string) ValidationFailure {
	return ValidationFailure{Kind: FailureMalformed, Reason: reason}
}

// SignatureInvalid builds a FailureSignatureInvalid.
func SignatureInvalid(reason string) ValidationFailure {
	return ValidationFailure{Kind: FailureSignatureInvalid, Reason: reason}
}

// InvalidClaims builds a FailureInvalidClaims.
func InvalidClaims(reason string) ValidationFailure {
	return ValidationFailure{Kind: FailureInvalidClaims, Reason: reason}
}

// Expired builds a FailureExpired.
func Expired(expiredAt string) ValidationFailure {
	return ValidationFailure{Kind: FailureExpired, At: expiredAt}
}

// NotYetValid builds a FailureNotYetValid.
func NotYetValid(validFrom string) ValidationFailure {
	return ValidationFailure{Kind: FailureNotYetValid, At: validFrom}
}

// IssuerMismatch builds a FailureIssuerMismatch.
func IssuerMismatch(actual, expected string) ValidationFailure {
	return ValidationFailure{Kind: FailureIssuerMismatch, Actual: actual, Expected: expected}
}

// AudienceMismatch builds a FailureAudienceMismatch.
func AudienceMismatch(actual, expected string) ValidationFailure {
	return ValidationFailure{Kind: FailureAudienceMismatch, Actual: actual, Expected: expected}
}

// Revoked builds a FailureRevoked.
func Revoked(revokedAt string) ValidationFailure {
	return ValidationFailure{Kind: FailureRevoked, At: revokedAt}
}

// IsExpired reports whether the failure is an expiry.
func (f ValidationFailure) IsExpired() bool { return f.Kind == FailureExpired }

// IsNotYetValid reports whether the failure is a not-yet-valid.
func (f ValidationFailure) IsNotYetValid() bool { return f.Kind == FailureNotYetValid }

// IsSignatureInvalid reports whether the signature failed.
func (f ValidationFailure) IsSignatureInvalid() bool { return f.Kind == FailureSignatureInvalid }

// IsMalformed reports whether the token was malformed.
func (f ValidationFailure) IsMalformed() bool { return f.Kind == FailureMalformed }

// IsInvalidClaims reports whether the claims were rejected.
func (f ValidationFailure) IsInvalidClaims() bool { return f.Kind == FailureInvalidClaims }

// IsRevoked reports whether the token was revoked.
func (f ValidationFailure) IsRevoked() bool { return f.Kind == FailureRevoked }

// TokenError converts the failure into its taxonomy leaf.
func (f ValidationFailure) TokenError() autherr.TokenError {
	switch f.Kind {
	case FailureMalformed:
		return autherr.Malformed(f.Reason)
	case FailureSignatureInvalid:
		return autherr.SignatureInvalid(f.Reason)
	case FailureInvalidClaims:
		return autherr.InvalidClaims(f.Reason)
	case FailureExpired:
		return autherr.TokenExpired(f.At)
	case FailureNotYetValid:
		return autherr.TokenNotYetValid(f.At)
	case FailureIssuerMismatch:
		return autherr.IssuerMismatch(f.Expected, f.Actual)
	case FailureAudienceMismatch:
		return autherr.AudienceMismatch(f.Expected, f.Actual)
	case FailureRevoked:
		return autherr.TokenRevoked(f.At)
	default:
		return autherr.Malformed("unknown validation failure")
	}
}

// Err returns the failure as a core error.
func (f ValidationFailure) Err() error {
	return autherr.New(f.TokenError())
}

func (f ValidationFailure) Error() string {
	return f.TokenError().Error()
}
