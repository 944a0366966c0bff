// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"errors"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/auth/memory"
	"github.com/holomush/authcore/internal/auth/postgres"
	authredis "github.com/holomush/authcore/internal/auth/redis"
	"github.com/holomush/authcore/internal/config"
	"github.com/holomush/authcore/internal/observability"
	"github.com/holomush/authcore/internal/store"
)

// ServiceAdmin is a service registry that can also be managed.
type ServiceAdmin interface {
	auth.ServiceRegistry
	Register(ctx context.Context, name, key string) error
	SetActive(ctx context.Context, name string, active bool) error
}

// Backend bundles the repositories selected by configuration.
type Backend struct {
	Identities  auth.IdentityRepository
	Credentials auth.CredentialRepository
	Sessions    auth.SessionRepository
	Services    ServiceAdmin

	// Ready reports whether every underlying store is reachable.
	Ready observability.ReadinessChecker

	closers []func()
}

// Close releases connections in reverse order of acquisition.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

// ObservabilityServer is the subset of observability.Server used by serve.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

// Deps contains injectable dependencies for the commands.
// All fields with nil values use their default implementations.
type Deps struct {
	// OpenBackend connects the repositories for cfg.
	// Default: openBackend
	OpenBackend func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error)

	// ObservabilityServerFactory creates the metrics/health server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, ready observability.ReadinessChecker, logger *slog.Logger) ObservabilityServer

	// NewMigrator opens the schema migrator for a database URL.
	// Default: store.NewMigrator
	NewMigrator func(databaseURL string) (Migrator, error)

	// Clock drives every use case.
	// Default: auth.SystemClock
	Clock auth.Clock
}

// Migrator is the subset of store.Migrator used by the migrate commands.
type Migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Force(version int) error
	Status() (*store.Status, error)
	Close() error
}

func (d *Deps) withDefaults() *Deps {
	out := Deps{}
	if d != nil {
		out = *d
	}
	if out.OpenBackend == nil {
		out.OpenBackend = openBackend
	}
	if out.ObservabilityServerFactory == nil {
		out.ObservabilityServerFactory = func(addr string, ready observability.ReadinessChecker, logger *slog.Logger) ObservabilityServer {
			return observability.NewServer(addr, ready, logger)
		}
	}
	if out.NewMigrator == nil {
		out.NewMigrator = func(databaseURL string) (Migrator, error) {
			return store.NewMigrator(databaseURL)
		}
	}
	if out.Clock == nil {
		out.Clock = auth.SystemClock{}
	}
	return &out
}

// openBackend wires the repositories for cfg.Session.Store. The memory
// store keeps everything in-process; the postgres and redis stores keep
// identities, credentials and services in PostgreSQL and differ only in
// where sessions live.
func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	if cfg.Session.Store == config.StoreMemory {
		return newMemoryBackend(auth.SystemClock{}), nil
	}
	if cfg.Database.URL == "" {
		return nil, oops.Code("CONFIG_INVALID").
			With("field", "database.url").
			Errorf("database.url is required when session.store is %s", cfg.Session.Store)
	}

	pool, err := store.Connect(ctx, cfg.Database.URL, store.ConnectOptions{
		Attempts: cfg.Database.ConnectAttempts,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	b := &Backend{
		Identities:  postgres.NewIdentityRepository(pool),
		Credentials: postgres.NewCredentialRepository(pool),
		Sessions:    postgres.NewSessionRepository(pool),
		Services:    postgres.NewServiceRegistry(pool),
		closers:     []func(){pool.Close},
	}
	checks := []observability.ReadinessChecker{pool.Ping}

	if cfg.Session.Store == config.StoreRedis {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			b.Close()
			return nil, oops.Code("REDIS_CONNECT_FAILED").With("addr", cfg.Redis.Addr).Wrap(err)
		}
		b.Sessions = authredis.NewSessionRepository(client)
		b.closers = append(b.closers, func() {
			if err := client.Close(); err != nil {
				logger.Debug("error closing redis client", "error", err)
			}
		})
		checks = append(checks, func(ctx context.Context) error { return client.Ping(ctx).Err() })
	}

	b.Ready = func(ctx context.Context) error {
		var errs []error
		for _, check := range checks {
			errs = append(errs, check(ctx))
		}
		return errors.Join(errs...)
	}
	logger.Info("backend connected", "session_store", cfg.Session.Store)
	return b, nil
}

func newMemoryBackend(clock auth.Clock) *Backend {
	dir := memory.NewDirectory()
	return &Backend{
		Identities:  dir,
		Credentials: dir,
		Sessions:    memory.NewSessions(clock),
		Services:    memory.NewServices(),
		Ready:       func(context.Context) error { return nil },
	}
}
