// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package autherr

import "fmt"

// InvariantKind enumerates internal precondition violations.
type InvariantKind int

// Invariant violation reasons.
const (
	KindAssertionFailed InvariantKind = iota + 1
	KindDependencyUnavailable
	KindInconsistentState
	KindInvalidConfiguration
	KindUnreachableCode
	KindViolated
)

// InvariantError reports a bug or misconfiguration. Transport adapters should
// surface it as a server error rather than a client error.
type InvariantError struct {
	Kind InvariantKind
	// Subject is the condition for KindAssertionFailed, the dependency name
	// for KindDependencyUnavailable and the location for KindUnreachableCode.
	Subject     string
	Description string
}

// AssertionFailed builds a KindAssertionFailed error.
func AssertionFailed(condition, context string) InvariantError {
	return InvariantError{Kind: KindAssertionFailed, Subject: condition, Description: context}
}

// DependencyUnavailable builds a KindDependencyUnavailable error.
func DependencyUnavailable(dependency, reason string) InvariantError {
	return InvariantError{Kind: KindDependencyUnavailable, Subject: dependency, Description: reason}
}

// InconsistentState builds a KindInconsistentState error.
func InconsistentState(description string) InvariantError {
	return InvariantError{Kind: KindInconsistentState, Description: description}
}

// InvalidConfiguration builds a KindInvalidConfiguration error.
func InvalidConfiguration(reason string) InvariantError {
	return InvariantError{Kind: KindInvalidConfiguration, Description: reason}
}

// UnreachableCode builds a KindUnreachableCode error.
func UnreachableCode(location string) InvariantError {
	return InvariantError{Kind: KindUnreachableCode, Subject: location}
}

// Violated builds a KindViolated error.
func Violated(description string) InvariantError {
	return InvariantError{Kind: KindViolated, Description: description}
}

func (e InvariantError) Error() string {
	switch e.Kind {
	case KindAssertionFailed:
		return fmt.Sprintf("Internal assertion failed: %s (%s)", e.Subject, e.Description)
	case KindDependencyUnavailable:
		return fmt.Sprintf("Required dependency '%s' is unexpectedly unavailable: %s", e.Subject, e.Description)
	case KindInconsistentState:
		return "Internal state is inconsistent: " + e.Description
	case KindInvalidConfiguration:
		return "Invalid configuration: " + e.Description
	case KindUnreachableCode:
		return "Unreachable code was executed at: " + e.Subject
	case KindViolated:
		return "Invariant violated: " + e.Description
	default:
		return "Invariant error: " + e.Description
	}
}

// Code returns the machine-readable code.
func (e InvariantError) Code() string {
	switch e.Kind {
	case KindAssertionFailed:
		return "INVARIANT_ASSERTION_FAILED"
	case KindDependencyUnavailable:
		return "INVARIANT_DEPENDENCY_UNAVAILABLE"
	case KindInconsistentState:
		return "INVARIANT_INCONSISTENT_STATE"
	case KindInvalidConfiguration:
		return "INVARIANT_INVALID_CONFIGURATION"
	case KindUnreachableCode:
		return "INVARIANT_UNREACHABLE_CODE"
	case KindViolated:
		return "INVARIANT_VIOLATED"
	default:
		return "INVARIANT_ERROR"
	}
}

func (InvariantError) category() Category { return CategoryInvariant }
