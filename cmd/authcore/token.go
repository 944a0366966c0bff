// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/auth/jwt"
	"github.com/holomush/authcore/internal/token"
)

// validationResponse is the JSON printed by token validate.
type validationResponse struct {
	Valid     bool   `json:"valid"`
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// newTokenCmd creates the token command group.
func newTokenCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Validate access tokens and generate signing keys",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate [TOKEN]",
		Short: "Validate an access token given as argument or on stdin",
		Long: `Validate an access token and print the verdict as JSON. The command
exits non-zero when the token is not valid.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenValidate(cmd, deps, args)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "keygen",
		Short: "Print a new random signing key for token.secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := jwt.GenerateKey()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	})

	return cmd
}

func runTokenValidate(cmd *cobra.Command, deps *Deps, args []string) error {
	var raw string
	if len(args) == 1 {
		raw = args[0]
	} else {
		var err error
		if raw, err = readSecret(cmd.InOrStdin(), "access token"); err != nil {
			return err
		}
	}

	a, err := loadApp(cmd, deps)
	if err != nil {
		return err
	}
	tokens, err := a.tokens()
	if err != nil {
		return err
	}
	uc, err := auth.NewValidateAccessToken(tokens, a.options()...)
	if err != nil {
		return err
	}
	out, err := uc.Execute(cmd.Context(), auth.ValidateAccessTokenInput{AccessToken: token.New(raw)})
	if err != nil {
		return err
	}

	if err := printJSON(cmd, validationResponse{
		Valid:     out.Valid,
		UserID:    out.UserID,
		SessionID: out.SessionID,
		Reason:    out.Reason,
	}); err != nil {
		return err
	}
	if !out.Valid {
		return oops.Code("TOKEN_INVALID").With("reason", out.Reason).Errorf("token is not valid: %s", out.Reason)
	}
	return nil
}
