// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/holomush/authcore/internal/autherr"
	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/identity"
	"github.com/holomush/authcore/internal/token"
)

// dummyCredential is verified when a user or credential does not exist so
// that response time does not reveal which identifiers are registered. It
// never matches any password.
//
//nolint:gosec // G101: intentionally fake hash for timing attack prevention, not a credential.
var dummyCredential = credential.FromHash("$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")

// invalidCredentialsReason is shared by the unknown-identifier and
// wrong-password paths so callers cannot tell them apart.
const invalidCredentialsReason = "invalid credentials"

// AuthenticateUserInput is the identifier/password pair to check.
type AuthenticateUserInput struct {
	Identifier string
	Password   *credential.RawCredential
}

// AuthenticateUserOutput carries the proven identity.
type AuthenticateUserOutput struct {
	User identity.UserIdentity
}

// AuthenticateUser verifies a password login under a lockout policy.
// It never issues tokens.
type AuthenticateUser struct {
	identities  IdentityRepository
	credentials CredentialRepository
	hasher      PasswordHasher
	policy      LockoutPolicy
	opts        options
}

// NewAuthenticateUser creates the use case.
func NewAuthenticateUser(
	identities IdentityRepository,
	credentials CredentialRepository,
	hasher PasswordHasher,
	policy LockoutPolicy,
	opts ...Option,
) (*AuthenticateUser, error) {
	if identities == nil || credentials == nil || hasher == nil {
		return nil, autherr.New(autherr.InvalidConfiguration("authenticate user requires identity, credential and hasher ports"))
	}
	if err := policy.Validate(); err != nil {
		return nil, autherr.Wrap(autherr.InvalidConfiguration("invalid lockout policy"), err)
	}
	return &AuthenticateUser{
		identities:  identities,
		credentials: credentials,
		hasher:      hasher,
		policy:      policy,
		opts:        applyOptions(opts),
	}, nil
}

// Execute runs the login check.
//
// Unknown identifiers and wrong passwords both fail with
// AuthenticationError{UserNotFound}. A current lock fails with
// AuthenticationError{AccountLocked} without consulting the hasher.
func (uc *AuthenticateUser) Execute(ctx context.Context, in AuthenticateUserInput) (*AuthenticateUserOutput, error) {
	logger := uc.opts.logger
	secret := ""
	if in.Password != nil {
		secret = in.Password.IntoInner()
	}

	user, err := uc.identities.FindByIdentifier(ctx, in.Identifier)
	if err != nil {
		if isNotFound(err) {
			uc.hasher.Verify(secret, dummyCredential)
			uc.opts.recorder.AuthAttempt(OutcomeUnknownIdentifier)
			logger.DebugContext(ctx, "login failed", "reason", OutcomeUnknownIdentifier)
			return nil, autherr.New(autherr.UserNotFound(invalidCredentialsReason))
		}
		uc.opts.recorder.AuthAttempt(OutcomeError)
		return nil, dependencyError("identity_repository", "find by identifier", err)
	}

	stored, err := uc.credentials.GetByUserID(ctx, user.ID())
	if err != nil && !isNotFound(err) {
		uc.opts.recorder.AuthAttempt(OutcomeError)
		return nil, dependencyError("credential_repository", "get by user id", err)
	}

	now := uc.opts.clock.Now()
	if stored != nil && stored.IsLockedAt(now) {
		until, _ := stored.LockedUntil()
		uc.opts.recorder.AuthAttempt(OutcomeLocked)
		logger.WarnContext(ctx, "login rejected for locked account",
			"user_id", user.ID(),
			"locked_until", until)
		return nil, autherr.New(autherr.AccountLocked("account locked until " + until))
	}
	stored = uc.clearExpiredLock(ctx, user.ID(), stored)

	verified := false
	if stored != nil && stored.IsNonEmpty() {
		verified = uc.hasher.Verify(secret, stored)
	} else {
		uc.hasher.Verify(secret, dummyCredential)
	}

	if !verified {
		uc.recordFailure(ctx, user, stored, now)
		uc.opts.recorder.AuthAttempt(OutcomeBadPassword)
		return nil, autherr.New(autherr.UserNotFound(invalidCredentialsReason))
	}

	if uc.policy.ResetOnSuccess {
		if err := uc.credentials.UpdateFailedAttempts(ctx, user.ID(), 0); err != nil {
			logPortFailure(ctx, logger, "failed to reset failed attempts", err, "user_id", user.ID())
		}
	}

	uc.maybeRehash(ctx, user.ID(), secret, stored)

	uc.opts.recorder.AuthAttempt(OutcomeSuccess)
	return &AuthenticateUserOutput{User: user}, nil
}

// maybeRehash upgrades a credential hashed with outdated parameters. Failures
// are logged; the login already succeeded.
func (uc *AuthenticateUser) maybeRehash(ctx context.Context, userID, secret string, stored *credential.StoredCredential) {
	rehasher, ok := uc.hasher.(Rehasher)
	if !ok || !rehasher.NeedsRehash(stored) {
		return
	}
	upgraded, err := uc.hasher.Hash(credential.NewRawCredential(secret))
	if err != nil {
		logPortFailure(ctx, uc.opts.logger, "failed to rehash credential", err, "user_id", userID)
		return
	}
	if err := uc.credentials.UpdatePassword(ctx, userID, upgraded); err != nil {
		logPortFailure(ctx, uc.opts.logger, "failed to store rehashed credential", err, "user_id", userID)
		return
	}
	uc.opts.logger.InfoContext(ctx, "credential rehashed", "user_id", userID)
}

// clearExpiredLock resets the counter and lock of a credential whose lock has
// passed, so the next failure starts a fresh count instead of relocking at once.
func (uc *AuthenticateUser) clearExpiredLock(ctx context.Context, userID string, stored *credential.StoredCredential) *credential.StoredCredential {
	if stored == nil {
		return nil
	}
	if _, locked := stored.LockedUntil(); !locked {
		return stored
	}
	if err := uc.credentials.InitializeCredentialState(ctx, userID); err != nil {
		logPortFailure(ctx, uc.opts.logger, "failed to clear expired lock", err, "user_id", userID)
		return stored
	}
	uc.opts.logger.DebugContext(ctx, "expired account lock cleared", "user_id", userID)
	return credential.FromParts(stored.HashForVerification(), 0, "")
}

// recordFailure bumps the failed attempt counter and locks the account when
// the policy threshold is reached. Port failures are logged, not returned.
func (uc *AuthenticateUser) recordFailure(ctx context.Context, user identity.UserIdentity, stored *credential.StoredCredential, now time.Time) {
	logger := uc.opts.logger.With(slog.String("user_id", user.ID()))

	attempts, err := uc.incrementAttempts(ctx, user.ID(), stored)
	if err != nil {
		logPortFailure(ctx, logger, "failed to record failed attempt", err)
		return
	}
	logger.DebugContext(ctx, "login failed", "reason", OutcomeBadPassword, "failed_attempts", attempts)

	if !uc.policy.IsLocked(attempts) {
		return
	}

	until := token.FormatTimestamp(uc.policy.LockExpiry(now))
	if err := uc.credentials.LockUntil(ctx, user.ID(), until); err != nil {
		logPortFailure(ctx, logger, "failed to lock account", err)
		return
	}
	uc.opts.recorder.AccountLocked()
	logger.WarnContext(ctx, "account locked after repeated failures",
		"failed_attempts", attempts,
		"locked_until", until)
}

func (uc *AuthenticateUser) incrementAttempts(ctx context.Context, userID string, stored *credential.StoredCredential) (uint32, error) {
	if inc, ok := uc.credentials.(AttemptIncrementer); ok {
		return inc.IncrementFailedAttempts(ctx, userID) //nolint:wrapcheck // logged by caller
	}

	var current uint32
	if stored != nil {
		current = stored.FailedAttempts()
	}
	next := current + 1
	if err := uc.credentials.UpdateFailedAttempts(ctx, userID, next); err != nil {
		return 0, err //nolint:wrapcheck // logged by caller
	}
	return next, nil
}
