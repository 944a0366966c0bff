// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/holomush/authcore/internal/config"
)

// NewRootCmd creates the root command for the authcore CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(nil)
}

func newRootCmd(deps *Deps) *cobra.Command {
	deps = deps.withDefaults()

	cmd := &cobra.Command{
		Use:   "authcore",
		Short: "authcore - multi-tenant authentication core",
		Long: `authcore verifies passwords under a lockout policy, issues and refreshes
signed session tokens, and authenticates service-to-service API keys.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "config file path (YAML)")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(newServeCmd(deps))
	cmd.AddCommand(newMigrateCmd(deps))
	cmd.AddCommand(newUserCmd(deps))
	cmd.AddCommand(newSessionCmd(deps))
	cmd.AddCommand(newTokenCmd(deps))
	cmd.AddCommand(newServiceCmd(deps))
	cmd.AddCommand(newStatusCmd(deps))

	return cmd
}
