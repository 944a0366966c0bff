// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package credential

import "unicode"

// Policy describes deterministic credential validation rules. Entropy
// estimation and breach lists belong to adapters.
type Policy struct {
	MinLength int
	// RequireComplexity is informational. Install ComplexityCheck as the
	// FormatCheck to enforce it.
	RequireComplexity bool
	FormatCheck       func(string) bool
	// EntropyNote documents the expected entropy. It is not enforced.
	EntropyNote string
}

// DefaultPolicy returns an eight character minimum. RequireComplexity is
// recorded but not enforced; set FormatCheck to ComplexityCheck to enforce it.
func DefaultPolicy() Policy {
	return Policy{
		MinLength:         8,
		RequireComplexity: true,
	}
}

// ValidateRaw is shorthand for raw.Validate(p).
func (p Policy) ValidateRaw(raw *RawCredential) error {
	return raw.Validate(p)
}

// ComplexityCheck requires at least three of: lower case, upper case, digit,
// other.
func ComplexityCheck(s string) bool {
	var lower, upper, digit, other bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			other = true
		}
	}
	classes := 0
	for _, ok := range []bool{lower, upper, digit, other} {
		if ok {
			classes++
		}
	}
	return classes >= 3
}
