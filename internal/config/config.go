// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config loads authcore configuration with koanf.
//
// Sources are layered, later ones winning: built-in defaults, an optional
// YAML file, AUTHCORE_* environment variables and command-line flags.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment variables read by Load.
// AUTHCORE_TOKEN_ACCESS_TTL_SECONDS sets token.access_ttl_seconds.
const EnvPrefix = "AUTHCORE_"

// Session store backends.
const (
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

// Config is the complete service configuration.
type Config struct {
	Database    DatabaseConfig    `koanf:"database"`
	Session     SessionConfig     `koanf:"session"`
	Redis       RedisConfig       `koanf:"redis"`
	Token       TokenConfig       `koanf:"token"`
	Lockout     LockoutConfig     `koanf:"lockout"`
	Password    PasswordConfig    `koanf:"password"`
	Log         LogConfig         `koanf:"log"`
	Metrics     MetricsConfig     `koanf:"metrics"`
	Maintenance MaintenanceConfig `koanf:"maintenance"`
}

// DatabaseConfig locates PostgreSQL.
type DatabaseConfig struct {
	URL             string `koanf:"url"`
	ConnectAttempts uint64 `koanf:"connect_attempts"`
}

// SessionConfig selects the session backend.
type SessionConfig struct {
	Store string `koanf:"store"`
}

// RedisConfig locates Redis when session.store is redis.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// TokenConfig holds signing and lifetime settings.
type TokenConfig struct {
	Secret              string `koanf:"secret"`
	Issuer              string `koanf:"issuer"`
	AccessTTLSeconds    uint64 `koanf:"access_ttl_seconds"`
	RefreshTTLDays      uint64 `koanf:"refresh_ttl_days"`
	RotateRefreshTokens bool   `koanf:"rotate_refresh_tokens"`
}

// LockoutConfig holds the failed-login policy.
type LockoutConfig struct {
	MaxAttempts     uint32 `koanf:"max_attempts"`
	DurationMinutes uint64 `koanf:"duration_minutes"`
}

// PasswordConfig holds the credential policy and argon2id cost.
type PasswordConfig struct {
	MinLength         int    `koanf:"min_length"`
	RequireComplexity bool   `koanf:"require_complexity"`
	Argon2Time        uint32 `koanf:"argon2_time"`
	Argon2MemoryKiB   uint32 `koanf:"argon2_memory_kib"`
	Argon2Threads     uint8  `koanf:"argon2_threads"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// MetricsConfig controls the observability server. An empty address
// disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// MaintenanceConfig controls background jobs.
type MaintenanceConfig struct {
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// Defaults returns the built-in configuration values keyed by path.
func Defaults() map[string]any {
	return map[string]any{
		"database.connect_attempts":   5,
		"session.store":               StorePostgres,
		"redis.addr":                  "127.0.0.1:6379",
		"redis.db":                    0,
		"token.issuer":                "authcore",
		"token.access_ttl_seconds":    900,
		"token.refresh_ttl_days":      7,
		"token.rotate_refresh_tokens": true,
		"lockout.max_attempts":        5,
		"lockout.duration_minutes":    30,
		"password.min_length":         8,
		"password.require_complexity": false,
		"password.argon2_time":        1,
		"password.argon2_memory_kib":  64 * 1024,
		"password.argon2_threads":     4,
		"log.format":                  "json",
		"log.level":                   "info",
		"metrics.addr":                "127.0.0.1:9100",
		"maintenance.sweep_interval":  "10m",
	}
}

// LoadOptions names the optional sources for Load.
type LoadOptions struct {
	// File is a YAML file path. Empty skips the file layer.
	File string
	// Flags are parsed command-line flags registered with RegisterFlags.
	// Only flags the user set override lower layers.
	Flags *pflag.FlagSet
}

// Load builds a Config from every layer and validates it.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "defaults").Wrap(err)
	}
	if opts.File != "" {
		if err := k.Load(file.Provider(opts.File), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("source", "file").
				With("path", opts.File).
				Wrap(err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "env").Wrap(err)
	}
	if opts.Flags != nil {
		provider := posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(opts.Flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("source", "merged").Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps AUTHCORE_SECTION_SOME_KEY to section.some_key. Every section
// name is a single word, so the first underscore separates the levels.
func envKey(name string) string {
	name = strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	section, key, found := strings.Cut(name, "_")
	if !found {
		return section
	}
	return section + "." + key
}
