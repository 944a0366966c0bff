// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package autherr

import "fmt"

// TokenKind enumerates the reasons a token is rejected.
type TokenKind int

// Token failure reasons.
const (
	KindMalformed TokenKind = iota + 1
	KindSignatureInvalid
	KindInvalidClaims
	KindTokenExpired
	KindTokenNotYetValid
	KindIssuerMismatch
	KindAudienceMismatch
	KindTokenRevoked
	KindUnsupportedAlgorithm
	KindKeyIDNotFound
)

// TokenError reports that a trust artifact is invalid or tampered with.
type TokenError struct {
	Kind   TokenKind
	Reason string
	// At is the RFC3339 timestamp carried by the expired, not-yet-valid and
	// revoked variants.
	At       string
	Expected string
	Actual   string
	// Detail holds the algorithm or key id for the corresponding variants.
	Detail string
}

// Malformed builds a KindMalformed error.
func Malformed(reason string) TokenError {
	return TokenError{Kind: KindMalformed, Reason: reason}
}

// SignatureInvalid builds a KindSignatureInvalid error.
func SignatureInvalid(reason string) TokenError {
	return TokenError{Kind: KindSignatureInvalid, Reason: reason}
}

// InvalidClaims builds a KindInvalidClaims error.
func InvalidClaims(reason string) TokenError {
	return TokenError{Kind: KindInvalidClaims, Reason: reason}
}

// TokenExpired builds a KindTokenExpired error.
func TokenExpired(expiredAt string) TokenError {
	return TokenError{Kind: KindTokenExpired, At: expiredAt}
}

// TokenNotYetValid builds a KindTokenNotYetValid error.
func TokenNotYetValid(validFrom string) TokenError {
	return TokenError{Kind: KindTokenNotYetValid, At: validFrom}
}

// IssuerMismatch builds a KindIssuerMismatch error.
func IssuerMismatch(expected, actual string) TokenError {
	return TokenError{Kind: KindIssuerMismatch, Expected: expected, Actual: actual}
}

// AudienceMismatch builds a KindAudienceMismatch error.
func AudienceMismatch(expected, actual string) TokenError {
	return TokenError{Kind: KindAudienceMismatch, Expected: expected, Actual: actual}
}

// TokenRevoked builds a KindTokenRevoked error.
func TokenRevoked(revokedAt string) TokenError {
	return TokenError{Kind: KindTokenRevoked, At: revokedAt}
}

// UnsupportedAlgorithm builds a KindUnsupportedAlgorithm error.
func UnsupportedAlgorithm(algorithm string) TokenError {
	return TokenError{Kind: KindUnsupportedAlgorithm, Detail: algorithm}
}

// KeyIDNotFound builds a KindKeyIDNotFound error.
func KeyIDNotFound(kid string) TokenError {
	return TokenError{Kind: KindKeyIDNotFound, Detail: kid}
}

func (e TokenError) Error() string {
	switch e.Kind {
	case KindMalformed:
		return "Token is malformed: " + e.Reason
	case KindSignatureInvalid:
		return "Token signature verification failed: " + e.Reason
	case KindInvalidClaims:
		return "Token contains invalid claims: " + e.Reason
	case KindTokenExpired:
		return "Token expired at: " + e.At
	case KindTokenNotYetValid:
		return "Token not valid until: " + e.At
	case KindIssuerMismatch:
		return fmt.Sprintf("Token issuer mismatch: expected %s, got %s", e.Expected, e.Actual)
	case KindAudienceMismatch:
		return fmt.Sprintf("Token audience mismatch: expected %s, got %s", e.Expected, e.Actual)
	case KindTokenRevoked:
		return "Token has been revoked at: " + e.At
	case KindUnsupportedAlgorithm:
		return "Token algorithm not supported: " + e.Detail
	case KindKeyIDNotFound:
		return "Token key ID not found: " + e.Detail
	default:
		return "Token invalid: " + e.Reason
	}
}

// Code returns the machine-readable code.
func (e TokenError) Code() string {
	switch e.Kind {
	case KindMalformed:
		return "TOKEN_MALFORMED"
	case KindSignatureInvalid:
		return "TOKEN_SIGNATURE_INVALID"
	case KindInvalidClaims:
		return "TOKEN_INVALID_CLAIMS"
	case KindTokenExpired:
		return "TOKEN_EXPIRED"
	case KindTokenNotYetValid:
		return "TOKEN_NOT_YET_VALID"
	case KindIssuerMismatch:
		return "TOKEN_ISSUER_MISMATCH"
	case KindAudienceMismatch:
		return "TOKEN_AUDIENCE_MISMATCH"
	case KindTokenRevoked:
		return "TOKEN_REVOKED"
	case KindUnsupportedAlgorithm:
		return "TOKEN_UNSUPPORTED_ALGORITHM"
	case KindKeyIDNotFound:
		return "TOKEN_KEY_ID_NOT_FOUND"
	default:
		return "TOKEN_INVALID"
	}
}

func (TokenError) category() Category { return CategoryToken }
