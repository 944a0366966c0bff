// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package autherr defines the failure taxonomy of the authentication core.
//
// Every failure belongs to exactly one of four categories:
//
//   - [AuthenticationError]: identity could not be proven.
//   - [CredentialError]: a credential is invalid independent of the flow.
//   - [TokenError]: a trust artifact is invalid or tampered with.
//   - [InvariantError]: an internal precondition was violated (a bug, not a user mistake).
//
// Leaf errors are comparable values. [Error] composes exactly one leaf and is
// what the use cases return.
package autherr

import (
	"errors"
	"fmt"
)

// Category identifies which of the four failure kinds an error belongs to.
type Category int

// Failure categories.
const (
	CategoryAuthentication Category = iota + 1
	CategoryCredential
	CategoryToken
	CategoryInvariant
)

// String returns the category label used in messages and metrics.
func (c Category) String() string {
	switch c {
	case CategoryAuthentication:
		return "authentication"
	case CategoryCredential:
		return "credential"
	case CategoryToken:
		return "token"
	case CategoryInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// Leaf is implemented by the four leaf error types. It is sealed.
type Leaf interface {
	error
	// Code returns a stable machine-readable code such as AUTH_ACCOUNT_LOCKED.
	Code() string
	category() Category
}

// Error is the composed core error. It always wraps exactly one [Leaf] and
// optionally the adapter error that caused it.
type Error struct {
	leaf  Leaf
	cause error
}

// New wraps a leaf error.
func New(leaf Leaf) *Error {
	return &Error{leaf: leaf}
}

// Wrap wraps a leaf error together with the underlying cause. The cause is
// reachable through errors.Is/As but is not part of the message.
func Wrap(leaf Leaf, cause error) *Error {
	return &Error{leaf: leaf, cause: cause}
}

// Error implements error.
func (e *Error) Error() string {
	switch e.leaf.category() {
	case CategoryAuthentication:
		return "Authentication error: " + e.leaf.Error()
	case CategoryCredential:
		return "Credential error: " + e.leaf.Error()
	case CategoryToken:
		return "Token error: " + e.leaf.Error()
	default:
		return "Invariant error: " + e.leaf.Error()
	}
}

// Unwrap exposes the leaf and, if present, the cause.
func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.leaf}
	}
	return []error{e.leaf, e.cause}
}

// Leaf returns the wrapped leaf error.
func (e *Error) Leaf() Leaf { return e.leaf }

// Cause returns the adapter error that triggered this failure, if any.
func (e *Error) Cause() error { return e.cause }

// Category returns the failure category.
func (e *Error) Category() Category { return e.leaf.category() }

// Code returns the leaf's machine-readable code.
func (e *Error) Code() string { return e.leaf.Code() }

// IsAuthentication reports whether e is an authentication failure.
func (e *Error) IsAuthentication() bool { return e.Category() == CategoryAuthentication }

// IsCredential reports whether e is a credential failure.
func (e *Error) IsCredential() bool { return e.Category() == CategoryCredential }

// IsToken reports whether e is a token failure.
func (e *Error) IsToken() bool { return e.Category() == CategoryToken }

// IsInvariant reports whether e is an invariant violation.
func (e *Error) IsInvariant() bool { return e.Category() == CategoryInvariant }

// Authentication returns the leaf as an AuthenticationError.
func (e *Error) Authentication() (AuthenticationError, bool) {
	v, ok := e.leaf.(AuthenticationError)
	return v, ok
}

// Credential returns the leaf as a CredentialError.
func (e *Error) Credential() (CredentialError, bool) {
	v, ok := e.leaf.(CredentialError)
	return v, ok
}

// Token returns the leaf as a TokenError.
func (e *Error) Token() (TokenError, bool) {
	v, ok := e.leaf.(TokenError)
	return v, ok
}

// Invariant returns the leaf as an InvariantError.
func (e *Error) Invariant() (InvariantError, bool) {
	v, ok := e.leaf.(InvariantError)
	return v, ok
}

// Format supports %+v, which appends the cause.
func (e *Error) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') && e.cause != nil {
		_, _ = fmt.Fprintf(s, "%s: %+v", e.Error(), e.cause)
		return
	}
	_, _ = fmt.Fprint(s, e.Error())
}

// As extracts the core error from err's chain.
func As(err error) (*Error, bool) {
	var coreErr *Error
	if errors.As(err, &coreErr) {
		return coreErr, true
	}
	return nil, false
}

// CodeOf returns the code of the core error in err's chain, or "" if none.
func CodeOf(err error) string {
	if coreErr, ok := As(err); ok {
		return coreErr.Code()
	}
	return ""
}
