// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"encoding/json"
	"fmt"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/token"
)

// tokenResponse is the JSON printed by login and refresh.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    uint64 `json:"expires_in"`
	SessionID    string `json:"session_id"`
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return oops.Code("OUTPUT_FAILED").Wrap(err)
	}
	return nil
}

// newSessionCmd creates the session command group.
func newSessionCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Log in, refresh and revoke sessions",
	}

	var ipAddress, userAgent string
	login := &cobra.Command{
		Use:   "login IDENTIFIER",
		Short: "Authenticate a user and issue a session; the password is read from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, deps, args[0], ipAddress, userAgent)
		},
	}
	login.Flags().StringVar(&ipAddress, "ip", "", "client IP address recorded on the session")
	login.Flags().StringVar(&userAgent, "user-agent", "authcore-cli", "client user agent recorded on the session")
	cmd.AddCommand(login)

	cmd.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Exchange a refresh token (read from stdin) for a new access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRefresh(cmd, deps)
		},
	})

	var sessionID string
	revoke := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke one session by --id, or by the refresh token read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRevoke(cmd, deps, sessionID)
		},
	}
	revoke.Flags().StringVar(&sessionID, "id", "", "session id to revoke")
	cmd.AddCommand(revoke)

	cmd.AddCommand(&cobra.Command{
		Use:   "revoke-all USER_ID",
		Short: "Revoke every live session of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRevokeAll(cmd, deps, args[0])
		},
	})

	return cmd
}

func runLogin(cmd *cobra.Command, deps *Deps, identifier, ipAddress, userAgent string) error {
	secret, err := readSecret(cmd.InOrStdin(), "password")
	if err != nil {
		return err
	}

	a, err := openApp(cmd, deps)
	if err != nil {
		return err
	}
	defer a.Close()

	tokens, err := a.tokens()
	if err != nil {
		return err
	}
	authn, err := auth.NewAuthenticateUser(
		a.backend.Identities, a.backend.Credentials, a.hasher(), a.cfg.LockoutPolicy(), a.options()...,
	)
	if err != nil {
		return err
	}
	issue, err := auth.NewIssueSession(a.backend.Sessions, tokens, a.cfg.TokenPolicy(), a.options()...)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	user, err := authn.Execute(ctx, auth.AuthenticateUserInput{
		Identifier: identifier,
		Password:   credential.NewRawCredential(secret),
	})
	if err != nil {
		return err
	}
	out, err := issue.Execute(ctx, auth.IssueSessionInput{
		User:      user.User,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	})
	if err != nil {
		return err
	}

	return printJSON(cmd, tokenResponse{
		AccessToken:  out.AccessToken.Value(),
		RefreshToken: out.RefreshToken.Value(),
		TokenType:    auth.TokenTypeBearer,
		ExpiresIn:    out.ExpiresIn,
		SessionID:    out.SessionID,
	})
}

func runRefresh(cmd *cobra.Command, deps *Deps) error {
	refresh, err := readSecret(cmd.InOrStdin(), "refresh token")
	if err != nil {
		return err
	}

	a, err := openApp(cmd, deps)
	if err != nil {
		return err
	}
	defer a.Close()

	tokens, err := a.tokens()
	if err != nil {
		return err
	}
	uc, err := auth.NewRefreshSession(a.backend.Sessions, tokens, a.cfg.TokenPolicy(), a.options()...)
	if err != nil {
		return err
	}
	out, err := uc.Execute(cmd.Context(), auth.RefreshSessionInput{RefreshToken: token.New(refresh)})
	if err != nil {
		return err
	}

	resp := tokenResponse{
		AccessToken: out.AccessToken.Value(),
		TokenType:   out.TokenType,
		ExpiresIn:   out.ExpiresIn,
		SessionID:   out.SessionID,
	}
	if out.RefreshToken != nil {
		resp.RefreshToken = out.RefreshToken.Value()
	}
	return printJSON(cmd, resp)
}

func runRevoke(cmd *cobra.Command, deps *Deps, sessionID string) error {
	in := auth.RevokeSessionInput{SessionID: sessionID}
	if sessionID == "" {
		refresh, err := readSecret(cmd.InOrStdin(), "refresh token")
		if err != nil {
			return err
		}
		in.RefreshTokenHash = auth.HashRefreshToken(refresh)
	}

	a, err := openApp(cmd, deps)
	if err != nil {
		return err
	}
	defer a.Close()

	uc, err := auth.NewRevokeSession(a.backend.Sessions, a.options()...)
	if err != nil {
		return err
	}
	out, err := uc.Execute(cmd.Context(), in)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "revoked %s\n", out.SessionID)
	return nil
}

func runRevokeAll(cmd *cobra.Command, deps *Deps, userID string) error {
	a, err := openApp(cmd, deps)
	if err != nil {
		return err
	}
	defer a.Close()

	uc, err := auth.NewRevokeAllSessions(a.backend.Sessions, a.options()...)
	if err != nil {
		return err
	}
	out, err := uc.Execute(cmd.Context(), auth.RevokeAllSessionsInput{UserID: userID})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "revoked %d session(s)\n", out.Revoked)
	return nil
}
