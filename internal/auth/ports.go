// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"
	"time"

	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/identity"
	"github.com/holomush/authcore/internal/token"
)

// IdentityRepository resolves identifiers to identities.
type IdentityRepository interface {
	// FindByIdentifier looks up a user by login identifier (e.g. an email).
	// Returns ErrNotFound if absent.
	FindByIdentifier(ctx context.Context, identifier string) (identity.UserIdentity, error)

	// FindByID looks up a user by id. Returns ErrNotFound if absent.
	FindByID(ctx context.Context, id string) (identity.UserIdentity, error)

	// FindWorkspaceByID looks up a workspace by id. Returns ErrNotFound if absent.
	FindWorkspaceByID(ctx context.Context, id string) (identity.WorkspaceIdentity, error)

	// Create stores a new user with its initial credential.
	// Returns ErrDuplicateIdentifier if the identifier is taken.
	Create(ctx context.Context, user identity.UserIdentity, identifier string, cred *credential.StoredCredential) error
}

// CredentialRepository reads and mutates stored credentials and their
// lockout state.
type CredentialRepository interface {
	// GetByUserID returns the stored credential. Returns ErrNotFound if absent.
	GetByUserID(ctx context.Context, userID string) (*credential.StoredCredential, error)

	// UpdateFailedAttempts sets the failed attempt counter.
	UpdateFailedAttempts(ctx context.Context, userID string, attempts uint32) error

	// LockUntil sets the lock expiry. until is an RFC3339 timestamp.
	LockUntil(ctx context.Context, userID string, until string) error

	// UpdatePassword replaces the stored hash and clears lockout state.
	UpdatePassword(ctx context.Context, userID string, cred *credential.StoredCredential) error

	// InitializeCredentialState resets the counter and lock for a new user.
	InitializeCredentialState(ctx context.Context, userID string) error
}

// AttemptIncrementer is implemented by credential repositories that can
// increment the failed attempt counter atomically. AuthenticateUser uses it
// when available; otherwise it falls back to a read followed by
// UpdateFailedAttempts, which is racy under concurrent attempts.
type AttemptIncrementer interface {
	// IncrementFailedAttempts adds one and returns the new count.
	// Returns ErrNotFound if the user has no credential row.
	IncrementFailedAttempts(ctx context.Context, userID string) (uint32, error)
}

// SessionRepository persists sessions.
type SessionRepository interface {
	// CreateSession stores a new session.
	CreateSession(ctx context.Context, session *Session) error

	// FindByRefreshTokenHash returns the session with the given refresh token
	// hash. Revoked and expired sessions must not be returned.
	// Returns ErrNotFound if no live session matches.
	FindByRefreshTokenHash(ctx context.Context, hash string) (*Session, error)

	// RevokeSession marks a session revoked. It reports true when this call
	// performed the revocation and false when the session was already revoked.
	// It must be atomic with respect to concurrent calls on the same session.
	// Returns ErrNotFound if the session does not exist.
	RevokeSession(ctx context.Context, sessionID string) (bool, error)

	// RevokeAllForUser revokes every live session of a user and returns the
	// number revoked.
	RevokeAllForUser(ctx context.Context, userID string) (int64, error)

	// DeleteExpired removes expired sessions and returns the count deleted.
	DeleteExpired(ctx context.Context) (int64, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	// Hash consumes raw and returns its stored form. It fails only on an
	// empty secret or a broken entropy source.
	Hash(raw *credential.RawCredential) (*credential.StoredCredential, error)

	// Verify reports whether raw matches stored. Malformed hashes do not match.
	Verify(raw string, stored *credential.StoredCredential) bool
}

// Rehasher is implemented by password hashers whose cost parameters can
// change. After a successful login AuthenticateUser rehashes a credential
// that NeedsRehash reports as outdated.
type Rehasher interface {
	NeedsRehash(stored *credential.StoredCredential) bool
}

// TokenService signs and validates tokens. Claims are exchanged as JSON
// strings in the shape of token.SessionClaims.
type TokenService interface {
	// IssueAccessToken signs an access token for subject.
	IssueAccessToken(subject, claims string) (token.Token, error)

	// IssueRefreshToken signs a refresh token for subject.
	IssueRefreshToken(subject, claims string) (token.Token, error)

	// ValidateAccessToken checks signature and structure and returns the
	// claims payload. Temporal checks are left to the caller.
	ValidateAccessToken(tok token.Token) (string, error)

	// ValidateRefreshToken checks signature and structure and returns the
	// claims payload. Temporal checks are left to the caller.
	ValidateRefreshToken(tok token.Token) (string, error)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ServiceRegistry checks service-to-service API keys.
type ServiceRegistry interface {
	// ValidateAPIKey returns the service name owning key.
	// Returns ErrNotFound if the key is unknown.
	ValidateAPIKey(ctx context.Context, key string) (string, error)

	// IsServiceActive reports whether the named service may authenticate.
	IsServiceActive(ctx context.Context, serviceName string) (bool, error)
}
