// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/authcore/internal/autherr"
)

// AssertErrorCode asserts that err carries the given code, either as a core
// error or as an oops error.
func AssertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	if coreErr, ok := autherr.As(err); ok {
		assert.Equal(t, code, coreErr.Code(), "core error: %v", coreErr)
		return
	}
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected core or oops error, got %T", err)
	assert.Equal(t, code, oopsErr.Code())
}

// AssertErrorCategory asserts that err is a core error of the given category.
func AssertErrorCategory(t *testing.T, err error, category autherr.Category) {
	t.Helper()
	coreErr, ok := autherr.As(err)
	require.True(t, ok, "expected core error, got %T", err)
	assert.Equal(t, category, coreErr.Category())
}

// AssertErrorContext asserts that err is an oops error with the given context key/value.
func AssertErrorContext(t *testing.T, err error, key string, value any) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	ctx := oopsErr.Context()
	assert.Contains(t, ctx, key)
	assert.Equal(t, value, ctx[key])
}
