// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"

	"github.com/holomush/authcore/internal/autherr"
	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/identity"
)

// RegisterCredentialInput is a new identifier with its initial password.
type RegisterCredentialInput struct {
	Identifier string
	Password   *credential.RawCredential
}

// RegisterCredentialOutput carries the created identity.
type RegisterCredentialOutput struct {
	User identity.UserIdentity
}

// RegisterCredential creates a user with a password that satisfies the
// credential policy.
type RegisterCredential struct {
	identities  IdentityRepository
	credentials CredentialRepository
	hasher      PasswordHasher
	policy      credential.Policy
	opts        options
}

// NewRegisterCredential creates the use case.
func NewRegisterCredential(
	identities IdentityRepository,
	credentials CredentialRepository,
	hasher PasswordHasher,
	policy credential.Policy,
	opts ...Option,
) (*RegisterCredential, error) {
	if identities == nil || credentials == nil || hasher == nil {
		return nil, autherr.New(autherr.InvalidConfiguration("register credential requires identity, credential and hasher ports"))
	}
	return &RegisterCredential{
		identities:  identities,
		credentials: credentials,
		hasher:      hasher,
		policy:      policy,
		opts:        applyOptions(opts),
	}, nil
}

// Execute validates, hashes and stores the credential.
func (uc *RegisterCredential) Execute(ctx context.Context, in RegisterCredentialInput) (*RegisterCredentialOutput, error) {
	if in.Identifier == "" {
		return nil, autherr.New(autherr.MissingRequired("identifier"))
	}
	if in.Password == nil {
		return nil, autherr.New(autherr.MissingRequired("secret"))
	}
	if err := in.Password.Validate(uc.policy); err != nil {
		return nil, err
	}

	stored, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, dependencyError("password_hasher", "hash", err)
	}

	user := identity.NewUserIdentity(ulid.Make().String())
	if err := uc.identities.Create(ctx, user, in.Identifier, stored); err != nil {
		if errors.Is(err, ErrDuplicateIdentifier) {
			return nil, autherr.New(autherr.InvalidFormat("identifier", "identifier already registered"))
		}
		return nil, dependencyError("identity_repository", "create", err)
	}

	if err := uc.credentials.InitializeCredentialState(ctx, user.ID()); err != nil {
		return nil, dependencyError("credential_repository", "initialize credential state", err)
	}

	uc.opts.logger.InfoContext(ctx, "credential registered", "user_id", user.ID())
	return &RegisterCredentialOutput{User: user}, nil
}
