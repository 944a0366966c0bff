// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/token"
)

// CredentialRepository implements auth.CredentialRepository and
// auth.AttemptIncrementer using PostgreSQL.
type CredentialRepository struct {
	pool poolIface
}

// NewCredentialRepository creates a new CredentialRepository.
func NewCredentialRepository(pool poolIface) *CredentialRepository {
	return &CredentialRepository{pool: pool}
}

// GetByUserID loads the stored credential and its lockout state.
func (r *CredentialRepository) GetByUserID(ctx context.Context, userID string) (*credential.StoredCredential, error) {
	var (
		hash        string
		attempts    int32
		lockedUntil *time.Time
	)
	err := r.pool.QueryRow(ctx, `
		SELECT password_hash, failed_attempts, locked_until
		FROM credentials
		WHERE user_id = $1
	`, userID).Scan(&hash, &attempts, &lockedUntil)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("CREDENTIAL_NOT_FOUND").With("user_id", userID).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("CREDENTIAL_QUERY_FAILED").
			With("operation", "get credential").
			With("user_id", userID).
			Wrap(err)
	}

	until := ""
	if lockedUntil != nil {
		until = token.FormatTimestamp(*lockedUntil)
	}
	if attempts < 0 {
		attempts = 0
	}
	return credential.FromParts(hash, uint32(attempts), until), nil
}

// UpdateFailedAttempts overwrites the failed attempt counter.
func (r *CredentialRepository) UpdateFailedAttempts(ctx context.Context, userID string, attempts uint32) error {
	return r.update(ctx, "update failed attempts", userID, `
		UPDATE credentials SET failed_attempts = $2, updated_at = NOW()
		WHERE user_id = $1
	`, int64(attempts))
}

// IncrementFailedAttempts adds one to the counter and returns the new value.
func (r *CredentialRepository) IncrementFailedAttempts(ctx context.Context, userID string) (uint32, error) {
	var attempts int32
	err := r.pool.QueryRow(ctx, `
		UPDATE credentials SET failed_attempts = failed_attempts + 1, updated_at = NOW()
		WHERE user_id = $1
		RETURNING failed_attempts
	`, userID).Scan(&attempts)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, oops.Code("CREDENTIAL_NOT_FOUND").With("user_id", userID).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return 0, oops.Code("CREDENTIAL_UPDATE_FAILED").
			With("operation", "increment failed attempts").
			With("user_id", userID).
			Wrap(err)
	}
	return uint32(attempts), nil //nolint:gosec // column is CHECKed non-negative
}

// LockUntil sets the lock expiry. until must be RFC 3339.
func (r *CredentialRepository) LockUntil(ctx context.Context, userID, until string) error {
	t, err := time.Parse(time.RFC3339, until)
	if err != nil {
		return oops.Code("CREDENTIAL_LOCK_INVALID").With("until", until).Wrap(err)
	}
	return r.update(ctx, "lock credential", userID, `
		UPDATE credentials SET locked_until = $2, updated_at = NOW()
		WHERE user_id = $1
	`, t.UTC())
}

// UpdatePassword replaces the password hash.
func (r *CredentialRepository) UpdatePassword(ctx context.Context, userID string, cred *credential.StoredCredential) error {
	return r.update(ctx, "update password", userID, `
		UPDATE credentials SET password_hash = $2, updated_at = NOW()
		WHERE user_id = $1
	`, cred.HashForVerification())
}

// InitializeCredentialState clears the counter and any lock.
func (r *CredentialRepository) InitializeCredentialState(ctx context.Context, userID string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE credentials SET failed_attempts = 0, locked_until = NULL, updated_at = NOW()
		WHERE user_id = $1
	`, userID)
	return checkUpdate(result.RowsAffected(), err, "initialize credential state", userID)
}

func (r *CredentialRepository) update(ctx context.Context, op, userID, sql string, value any) error {
	result, err := r.pool.Exec(ctx, sql, userID, value)
	return checkUpdate(result.RowsAffected(), err, op, userID)
}

func checkUpdate(rows int64, err error, op, userID string) error {
	if err != nil {
		return oops.Code("CREDENTIAL_UPDATE_FAILED").
			With("operation", op).
			With("user_id", userID).
			Wrap(err)
	}
	if rows == 0 {
		return oops.Code("CREDENTIAL_NOT_FOUND").With("user_id", userID).Wrap(auth.ErrNotFound)
	}
	return nil
}

var (
	_ auth.CredentialRepository = (*CredentialRepository)(nil)
	_ auth.AttemptIncrementer   = (*CredentialRepository)(nil)
)
