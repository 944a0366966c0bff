// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/holomush/authcore/internal/auth"
)

// newServiceCmd creates the service command group.
func newServiceCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage service-to-service API keys",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "register NAME",
		Short: "Issue a new API key for a service, replacing any previous key",
		Long: `Generate a random API key for the named service and print it once. Only a
digest of the key is stored. Registering an existing service rotates its key
and reactivates it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServiceRegister(cmd, deps, args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "disable NAME",
		Short: "Reject the service's API key until it is enabled again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServiceSetActive(cmd, deps, args[0], false)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "enable NAME",
		Short: "Accept the service's API key again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServiceSetActive(cmd, deps, args[0], true)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "verify",
		Short: "Authenticate an API key read from stdin and print the service name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServiceVerify(cmd, deps)
		},
	})

	return cmd
}

func runServiceRegister(cmd *cobra.Command, deps *Deps, name string) error {
	a, err := openApp(cmd, deps)
	if err != nil {
		return err
	}
	defer a.Close()

	key, err := auth.NewAPIKey()
	if err != nil {
		return err
	}
	if err := a.backend.Services.Register(cmd.Context(), name, key); err != nil {
		return err
	}

	a.logger.InfoContext(cmd.Context(), "service registered", "service", name)
	fmt.Fprintln(cmd.OutOrStdout(), key)
	return nil
}

func runServiceSetActive(cmd *cobra.Command, deps *Deps, name string, active bool) error {
	a, err := openApp(cmd, deps)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.backend.Services.SetActive(cmd.Context(), name, active); err != nil {
		return err
	}

	state := "disabled"
	if active {
		state = "enabled"
	}
	a.logger.InfoContext(cmd.Context(), "service "+state, "service", name)
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", state, name)
	return nil
}

func runServiceVerify(cmd *cobra.Command, deps *Deps) error {
	key, err := readSecret(cmd.InOrStdin(), "api key")
	if err != nil {
		return err
	}

	a, err := openApp(cmd, deps)
	if err != nil {
		return err
	}
	defer a.Close()

	uc, err := auth.NewAuthenticateService(a.backend.Services, a.options()...)
	if err != nil {
		return err
	}
	out, err := uc.Execute(cmd.Context(), auth.AuthenticateServiceInput{APIKey: key})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), out.ServiceName)
	return nil
}
