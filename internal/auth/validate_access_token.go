// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"

	"github.com/holomush/authcore/internal/autherr"
	"github.com/holomush/authcore/internal/token"
)

// Reasons reported by ValidateAccessToken.
const (
	ReasonSignatureInvalid = "token signature invalid"
	ReasonInvalidClaims    = "invalid token claims"
	ReasonWrongType        = "invalid token type"
	ReasonExpired          = "token expired"
)

// Validation results reported to a Recorder.
const (
	ResultValid            = "valid"
	ResultSignatureInvalid = "signature_invalid"
	ResultInvalidClaims    = "invalid_claims"
	ResultWrongType        = "wrong_type"
	ResultExpired          = "expired"
)

// ValidateAccessTokenInput carries the token to check.
type ValidateAccessTokenInput struct {
	AccessToken token.Token
}

// ValidateAccessTokenOutput reports the verdict as data. UserID and
// SessionID are set only when Valid; Reason only when not.
type ValidateAccessTokenOutput struct {
	Valid     bool
	UserID    string
	SessionID string
	Reason    string
}

// ValidateAccessToken decides whether an access token is currently valid.
// Invalid tokens are an outcome, not an error.
type ValidateAccessToken struct {
	tokens TokenService
	opts   options
}

// NewValidateAccessToken creates the use case.
func NewValidateAccessToken(tokens TokenService, opts ...Option) (*ValidateAccessToken, error) {
	if tokens == nil {
		return nil, autherr.New(autherr.InvalidConfiguration("validate access token requires a token port"))
	}
	return &ValidateAccessToken{tokens: tokens, opts: applyOptions(opts)}, nil
}

// Execute validates the token.
func (uc *ValidateAccessToken) Execute(ctx context.Context, in ValidateAccessTokenInput) (*ValidateAccessTokenOutput, error) {
	payload, err := uc.tokens.ValidateAccessToken(in.AccessToken)
	if err != nil {
		uc.opts.logger.DebugContext(ctx, "access token rejected", "error", err)
		return uc.invalid(ResultSignatureInvalid, ReasonSignatureInvalid), nil
	}

	claims, err := token.DecodeSessionClaims(payload)
	if err != nil || claims.Sub == "" {
		return uc.invalid(ResultInvalidClaims, ReasonInvalidClaims), nil
	}
	if claims.Type != token.TypeAccess {
		return uc.invalid(ResultWrongType, ReasonWrongType), nil
	}
	if claims.IsExpiredAt(uc.opts.clock.Now()) {
		return uc.invalid(ResultExpired, ReasonExpired), nil
	}

	uc.opts.recorder.TokenValidated(ResultValid)
	return &ValidateAccessTokenOutput{
		Valid:     true,
		UserID:    claims.Sub,
		SessionID: claims.Sid,
	}, nil
}

func (uc *ValidateAccessToken) invalid(result, reason string) *ValidateAccessTokenOutput {
	uc.opts.recorder.TokenValidated(result)
	return &ValidateAccessTokenOutput{Reason: reason}
}
