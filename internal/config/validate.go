// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config

import (
	"time"

	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/auth/argon2"
	"github.com/holomush/authcore/internal/auth/jwt"
	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/logging"
)

func invalid(field string, format string, args ...any) error {
	return oops.Code("CONFIG_INVALID").With("field", field).Errorf(format, args...)
}

// Validate rejects invalid values and combinations. It does not require the
// token secret or database URL; commands that need them call SigningKey or
// check Database.URL themselves.
func (c *Config) Validate() error {
	switch c.Session.Store {
	case StorePostgres, StoreMemory:
	case StoreRedis:
		if c.Redis.Addr == "" {
			return invalid("redis.addr", "redis.addr is required when session.store is redis")
		}
	default:
		return invalid("session.store", "session.store must be postgres, redis or memory, got %q", c.Session.Store)
	}

	if c.Database.ConnectAttempts == 0 {
		return invalid("database.connect_attempts", "database.connect_attempts must be positive")
	}
	if c.Token.Secret != "" {
		if _, err := jwt.DecodeKey(c.Token.Secret); err != nil {
			return oops.Code("CONFIG_INVALID").With("field", "token.secret").Wrap(err)
		}
	}
	if err := c.TokenPolicy().Validate(); err != nil {
		return oops.Code("CONFIG_INVALID").With("field", "token").Wrap(err)
	}
	if err := c.LockoutPolicy().Validate(); err != nil {
		return oops.Code("CONFIG_INVALID").With("field", "lockout").Wrap(err)
	}
	if c.Password.MinLength < 1 {
		return invalid("password.min_length", "password.min_length must be positive")
	}
	if c.Password.Argon2Time == 0 || c.Password.Argon2MemoryKiB < 8 || c.Password.Argon2Threads == 0 {
		return invalid("password", "argon2 time, memory (>= 8 KiB) and threads must be positive")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return invalid("log.format", "log.format must be 'json' or 'text', got %q", c.Log.Format)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return oops.Code("CONFIG_INVALID").With("field", "log.level").Wrap(err)
	}
	if c.Maintenance.SweepInterval < 0 {
		return invalid("maintenance.sweep_interval", "maintenance.sweep_interval cannot be negative")
	}
	return nil
}

// TokenPolicy builds the token policy.
func (c *Config) TokenPolicy() auth.TokenPolicy {
	return auth.TokenPolicy{
		AccessTTL:      time.Duration(c.Token.AccessTTLSeconds) * time.Second,
		RefreshTTL:     time.Duration(c.Token.RefreshTTLDays) * 24 * time.Hour,
		OneTimeRefresh: c.Token.RotateRefreshTokens,
	}
}

// LockoutPolicy builds the lockout policy.
func (c *Config) LockoutPolicy() auth.LockoutPolicy {
	return auth.LockoutPolicy{
		MaxAttempts:    c.Lockout.MaxAttempts,
		LockDuration:   time.Duration(c.Lockout.DurationMinutes) * time.Minute,
		ResetOnSuccess: true,
	}
}

// CredentialPolicy builds the password policy.
func (c *Config) CredentialPolicy() credential.Policy {
	p := credential.DefaultPolicy()
	p.MinLength = c.Password.MinLength
	p.RequireComplexity = c.Password.RequireComplexity
	if c.Password.RequireComplexity {
		p.FormatCheck = credential.ComplexityCheck
	}
	return p
}

// Argon2Params builds the hasher cost parameters.
func (c *Config) Argon2Params() argon2.Params {
	p := argon2.DefaultParams()
	p.Time = c.Password.Argon2Time
	p.Memory = c.Password.Argon2MemoryKiB
	p.Threads = c.Password.Argon2Threads
	return p
}

// SigningKey decodes token.secret. It fails when the secret is unset.
func (c *Config) SigningKey() ([]byte, error) {
	if c.Token.Secret == "" {
		return nil, invalid("token.secret", "token.secret is required (set %sTOKEN_SECRET)", EnvPrefix)
	}
	key, err := jwt.DecodeKey(c.Token.Secret)
	if err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("field", "token.secret").Wrap(err)
	}
	return key, nil
}
