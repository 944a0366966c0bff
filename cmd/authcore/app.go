// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/auth/argon2"
	"github.com/holomush/authcore/internal/auth/jwt"
	"github.com/holomush/authcore/internal/config"
	"github.com/holomush/authcore/internal/logging"
)

const serviceName = "authcore"

// app is the per-invocation state shared by the commands.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	backend *Backend
	clock   auth.Clock
}

// loadConfig reads configuration from every layer, with the command's
// flags on top. Without --config the XDG config file is used if present.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, err := cmd.Flags().GetString("config")
	if err != nil || file == "" {
		file = config.DefaultFile()
	}
	cfg, err := config.Load(config.LoadOptions{File: file, Flags: cmd.Flags()})
	if err != nil {
		return nil, oops.With("operation", "load configuration").Wrap(err)
	}
	return cfg, nil
}

// newLogger builds the command logger. Logs go to stderr so stdout stays
// machine readable.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.Setup(serviceName, version, cfg.Log.Format, level, cmd.ErrOrStderr()), nil
}

// loadApp loads configuration and logging without touching any store.
func loadApp(cmd *cobra.Command, deps *Deps) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, clock: deps.Clock}, nil
}

// openApp loads configuration and connects the backend.
func openApp(cmd *cobra.Command, deps *Deps) (*app, error) {
	a, err := loadApp(cmd, deps)
	if err != nil {
		return nil, err
	}
	a.backend, err = deps.OpenBackend(cmd.Context(), a.cfg, a.logger)
	if err != nil {
		return nil, oops.With("operation", "open backend").Wrap(err)
	}
	return a, nil
}

func (a *app) Close() {
	if a.backend != nil {
		a.backend.Close()
	}
}

func (a *app) options() []auth.Option {
	return []auth.Option{auth.WithLogger(a.logger), auth.WithClock(a.clock)}
}

func (a *app) hasher() *argon2.Hasher {
	return argon2.NewHasherWithParams(a.cfg.Argon2Params())
}

func (a *app) tokens() (*jwt.Service, error) {
	key, err := a.cfg.SigningKey()
	if err != nil {
		return nil, err
	}
	return jwt.NewService(key, jwt.WithIssuer(a.cfg.Token.Issuer), jwt.WithClock(a.clock))
}

// readSecret reads one line from r. Secrets are never taken from flags.
func readSecret(r io.Reader, what string) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", oops.Code("INPUT_MISSING").With("input", what).Wrap(err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", oops.Code("INPUT_MISSING").With("input", what).Errorf("expected %s on stdin", what)
	}
	return line, nil
}
