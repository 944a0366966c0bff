// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/authcore/internal/maintenance"
)

const shutdownTimeout = 5 * time.Second

// newServeCmd creates the serve subcommand.
func newServeCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the session sweeper and the metrics/health server",
		Long: `Connect the configured stores, expose Prometheus metrics and health probes,
and delete expired sessions on the configured interval until interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, deps)
		},
	}
}

func runServe(cmd *cobra.Command, deps *Deps) error {
	a, err := openApp(cmd, deps)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	logger := a.logger
	logger.Info("starting authcore",
		"version", version,
		"session_store", a.cfg.Session.Store,
	)

	var obsServer ObservabilityServer
	if a.cfg.Metrics.Addr != "" {
		obsServer = deps.ObservabilityServerFactory(a.cfg.Metrics.Addr, a.backend.Ready, logger)
		obsErrChan, err := obsServer.Start()
		if err != nil {
			return oops.Code("SERVE_FAILED").With("operation", "start observability server").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability", logger)
		logger.Info("observability server started", "addr", obsServer.Addr())
	}

	var sweeper *maintenance.Sweeper
	if interval := a.cfg.Maintenance.SweepInterval; interval > 0 {
		opts := []maintenance.Option{maintenance.WithLogger(logger)}
		if obsServer != nil {
			opts = append(opts, maintenance.WithRecorder(obsServer.Metrics()))
		}
		sweeper = maintenance.NewSweeper(a.backend.Sessions, interval, opts...)
		if err := sweeper.Start(ctx); err != nil {
			return oops.Code("SERVE_FAILED").With("operation", "start sweeper").Wrap(err)
		}
		logger.Info("session sweeper started", "interval", interval)
	} else {
		logger.Info("session sweeper disabled")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("authcore ready")

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	logger.Info("shutting down...")
	if sweeper != nil {
		sweeper.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			logger.Warn("error stopping observability server", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

// monitorServerErrors cancels ctx when a background server fails.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, name string, logger *slog.Logger) {
	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			logger.Error("server failed", "server", name, "error", err)
			cancel()
		}
	case <-ctx.Done():
	}
}
