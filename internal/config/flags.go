// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config

import (
	"time"

	"github.com/spf13/pflag"
)

// flagKeys maps flag names to configuration keys. Secrets have no flag.
var flagKeys = map[string]string{
	"database-url":         "database.url",
	"session-store":        "session.store",
	"redis-addr":           "redis.addr",
	"token-issuer":         "token.issuer",
	"access-ttl-seconds":   "token.access_ttl_seconds",
	"refresh-ttl-days":     "token.refresh_ttl_days",
	"rotate-refresh":       "token.rotate_refresh_tokens",
	"lockout-max-attempts": "lockout.max_attempts",
	"log-format":           "log.format",
	"log-level":            "log.level",
	"metrics-addr":         "metrics.addr",
	"sweep-interval":       "maintenance.sweep_interval",
}

// RegisterFlags adds the configuration flags to fs. Their defaults are
// informational; Load only applies flags the user changed.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("database-url", "", "PostgreSQL connection URL")
	fs.String("session-store", StorePostgres, "session backend (postgres, redis or memory)")
	fs.String("redis-addr", "127.0.0.1:6379", "Redis address for the redis session store")
	fs.String("token-issuer", "authcore", "iss claim for issued tokens")
	fs.Uint64("access-ttl-seconds", 900, "access token lifetime in seconds")
	fs.Uint64("refresh-ttl-days", 7, "refresh token lifetime in days")
	fs.Bool("rotate-refresh", true, "rotate refresh tokens on use")
	fs.Uint32("lockout-max-attempts", 5, "failed logins before an account locks")
	fs.String("log-format", "json", "log format (json or text)")
	fs.String("log-level", "info", "log level (debug, info, warn or error)")
	fs.String("metrics-addr", "127.0.0.1:9100", "metrics/health HTTP address (empty = disabled)")
	fs.Duration("sweep-interval", 10*time.Minute, "expired session sweep interval")
}
