// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package maintenance runs background upkeep for the session store.
package maintenance

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/oops"
)

// DefaultSweepInterval is how often expired sessions are removed.
const DefaultSweepInterval = 10 * time.Minute

// ExpiredSessionDeleter is the slice of auth.SessionRepository the sweeper needs.
type ExpiredSessionDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// SweepRecorder receives the number of sessions each sweep removed.
type SweepRecorder interface {
	SessionsDeleted(n int64)
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder reports sweep counts, e.g. to observability.Metrics.
func WithRecorder(r SweepRecorder) Option {
	return func(s *Sweeper) { s.recorder = r }
}

// Sweeper periodically deletes expired sessions.
type Sweeper struct {
	store    ExpiredSessionDeleter
	interval time.Duration
	logger   *slog.Logger
	recorder SweepRecorder

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSweeper creates a sweeper. A non-positive interval uses
// DefaultSweepInterval.
func NewSweeper(store ExpiredSessionDeleter, interval time.Duration, opts ...Option) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	s := &Sweeper{
		store:    store,
		interval: interval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunOnce performs a single sweep and returns the number of sessions deleted.
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteExpired(ctx)
	if err != nil {
		return 0, oops.Code("SWEEP_FAILED").With("operation", "delete expired sessions").Wrap(err)
	}
	if s.recorder != nil {
		s.recorder.SessionsDeleted(n)
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "deleted expired sessions", "count", n)
	}
	return n, nil
}

// Start sweeps once immediately and then on every interval until ctx is
// cancelled or Stop is called.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return oops.Code("SWEEPER_ALREADY_RUNNING").Errorf("sweeper already running")
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run(ctx)
	return nil
}

// Stop stops the sweeper and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

func (s *Sweeper) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
		s.logger.ErrorContext(ctx, "session sweep failed", "error", err)
	}
}
