// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/holomush/authcore/internal/autherr"
)

// Outcome labels reported to a Recorder.
const (
	OutcomeSuccess           = "success"
	OutcomeUnknownIdentifier = "unknown_identifier"
	OutcomeBadPassword       = "bad_password"
	OutcomeLocked            = "locked"
	OutcomeError             = "error"
)

// Recorder receives outcome events from the use cases. The observability
// package provides a Prometheus implementation.
type Recorder interface {
	AuthAttempt(outcome string)
	AccountLocked()
	SessionIssued()
	SessionRefreshed(rotated bool)
	SessionsRevoked(n int64)
	TokenValidated(result string)
}

type nopRecorder struct{}

func (nopRecorder) AuthAttempt(string) {}
func (nopRecorder) AccountLocked() {}
func (nopRecorder) SessionIssued() {}
func (nopRecorder) SessionRefreshed(bool) {}
func (nopRecorder) SessionsRevoked(int64) {}
func (nopRecorder) TokenValidated(string) {}

type options struct {
	logger    *slog.Logger
	clock     Clock
	recorder  Recorder
	sessionID func() string
}

func defaultOptions() options {
	return options{
		logger:    slog.Default(),
		clock:     SystemClock{},
		recorder:  nopRecorder{},
		sessionID: NewSessionID,
	}
}

// Option configures a use case.
type Option func(*options)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock sets the clock. Defaults to SystemClock.
func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithRecorder sets the outcome recorder.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithSessionIDGenerator overrides session id generation.
func WithSessionIDGenerator(gen func() string) Option {
	return func(o *options) {
		if gen != nil {
			o.sessionID = gen
		}
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// dependencyError wraps an unexpected port failure.
func dependencyError(dependency, operation string, err error) error {
	return autherr.Wrap(autherr.DependencyUnavailable(dependency, operation+" failed"), err)
}

// isNotFound reports whether err signals absence.
func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// logPortFailure records a best-effort port failure that does not change the
// use case outcome.
func logPortFailure(ctx context.Context, logger *slog.Logger, msg string, err error, attrs ...any) {
	attrs = append(attrs, "error", err)
	logger.WarnContext(ctx, msg, attrs...)
}
