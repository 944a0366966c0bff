// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package store owns the auth database schema and connection setup.
package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// DefaultConnectAttempts is used when ConnectOptions.Attempts is zero.
const DefaultConnectAttempts = 5

// ConnectOptions tunes Connect.
type ConnectOptions struct {
	// Attempts is the total number of connection attempts.
	Attempts uint64
	// InitialBackoff is the first retry delay; it doubles per attempt.
	InitialBackoff time.Duration
	Logger         *slog.Logger
}

// pinger lets tests replace pool construction.
type pinger interface {
	Ping(ctx context.Context) error
	Close()
}

var newPool = func(ctx context.Context, url string) (pinger, error) {
	return pgxpool.New(ctx, url) //nolint:wrapcheck // wrapped by Connect
}

// Connect opens a pgx pool and pings it, retrying with exponential backoff
// while the database comes up.
func Connect(ctx context.Context, url string, opts ConnectOptions) (*pgxpool.Pool, error) {
	p, err := connect(ctx, url, opts)
	if err != nil {
		return nil, err
	}
	return p.(*pgxpool.Pool), nil
}

func connect(ctx context.Context, url string, opts ConnectOptions) (pinger, error) {
	if url == "" {
		return nil, oops.Code("DB_URL_MISSING").Errorf("database url is empty")
	}
	attempts := opts.Attempts
	if attempts == 0 {
		attempts = DefaultConnectAttempts
	}
	backoffStart := opts.InitialBackoff
	if backoffStart <= 0 {
		backoffStart = 500 * time.Millisecond
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	backoff := retry.WithMaxRetries(attempts-1, retry.NewExponential(backoffStart))

	var pool pinger
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		p, err := newPool(ctx, url)
		if err != nil {
			// A malformed URL will not fix itself.
			return oops.Code("DB_CONFIG_INVALID").Wrap(err)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			logger.WarnContext(ctx, "database not ready", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("attempts", attempt).Wrap(err)
	}
	return pool, nil
}
