// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"errors"
	"fmt"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/credential"
)

// newUserCmd creates the user command group.
func newUserCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user credentials",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create IDENTIFIER",
		Short: "Register a user; the password is read from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserCreate(cmd, deps, args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "unlock IDENTIFIER",
		Short: "Clear failed login attempts and any account lock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserUnlock(cmd, deps, args[0])
		},
	})

	return cmd
}

func runUserCreate(cmd *cobra.Command, deps *Deps, identifier string) error {
	secret, err := readSecret(cmd.InOrStdin(), "password")
	if err != nil {
		return err
	}

	a, err := openApp(cmd, deps)
	if err != nil {
		return err
	}
	defer a.Close()

	uc, err := auth.NewRegisterCredential(
		a.backend.Identities, a.backend.Credentials, a.hasher(), a.cfg.CredentialPolicy(), a.options()...,
	)
	if err != nil {
		return err
	}
	out, err := uc.Execute(cmd.Context(), auth.RegisterCredentialInput{
		Identifier: identifier,
		Password:   credential.NewRawCredential(secret),
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), out.User.ID())
	return nil
}

func runUserUnlock(cmd *cobra.Command, deps *Deps, identifier string) error {
	a, err := openApp(cmd, deps)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	user, err := a.backend.Identities.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return oops.Code("USER_NOT_FOUND").With("identifier", identifier).Wrap(err)
		}
		return err
	}
	if err := a.backend.Credentials.InitializeCredentialState(ctx, user.ID()); err != nil {
		return err
	}

	a.logger.InfoContext(ctx, "account unlocked", "user_id", user.ID())
	fmt.Fprintf(cmd.OutOrStdout(), "unlocked %s\n", user.ID())
	return nil
}
