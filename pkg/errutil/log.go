// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package errutil provides helpers for logging and asserting on structured errors.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/autherr"
)

// LogError logs an error with structured context.
// For core errors, it logs the message, code, category, and the underlying cause.
// For oops errors, it extracts and logs the message, code, and context.
// For standard errors, it logs the error string.
func LogError(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, Attrs(err)...)
}

// Attrs returns the structured attributes LogError would emit for err.
func Attrs(err error) []any {
	if coreErr, ok := autherr.As(err); ok {
		attrs := []any{
			"error", coreErr.Error(),
			"code", coreErr.Code(),
			"category", coreErr.Category().String(),
		}
		if cause := coreErr.Cause(); cause != nil {
			attrs = append(attrs, "cause", cause.Error())
			if oopsErr, ok := oops.AsOops(cause); ok {
				if code := oopsErr.Code(); code != nil {
					attrs = append(attrs, "cause_code", code)
				}
				if ctx := oopsErr.Context(); len(ctx) > 0 {
					attrs = append(attrs, "context", ctx)
				}
			}
		}
		return attrs
	}

	if oopsErr, ok := oops.AsOops(err); ok {
		attrs := []any{
			"error", oopsErr.Error(),
		}
		if code := oopsErr.Code(); code != nil {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
		return attrs
	}

	return []any{"error", err}
}
