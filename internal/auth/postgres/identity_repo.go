// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/identity"
)

// IdentityRepository implements auth.IdentityRepository using PostgreSQL.
type IdentityRepository struct {
	pool poolIface
}

// NewIdentityRepository creates a new IdentityRepository.
func NewIdentityRepository(pool poolIface) *IdentityRepository {
	return &IdentityRepository{pool: pool}
}

// FindByIdentifier looks a user up by identifier, ignoring case.
func (r *IdentityRepository) FindByIdentifier(ctx context.Context, identifier string) (identity.UserIdentity, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		SELECT id FROM users WHERE LOWER(identifier) = LOWER($1)
	`, identifier).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return identity.UserIdentity{}, oops.Code("USER_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return identity.UserIdentity{}, oops.Code("USER_QUERY_FAILED").
			With("operation", "find user by identifier").
			Wrap(err)
	}
	return identity.NewUserIdentity(id), nil
}

// FindByID checks that a user exists.
func (r *IdentityRepository) FindByID(ctx context.Context, id string) (identity.UserIdentity, error) {
	var found string
	err := r.pool.QueryRow(ctx, `SELECT id FROM users WHERE id = $1`, id).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return identity.UserIdentity{}, oops.Code("USER_NOT_FOUND").With("user_id", id).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return identity.UserIdentity{}, oops.Code("USER_QUERY_FAILED").
			With("operation", "find user by id").
			With("user_id", id).
			Wrap(err)
	}
	return identity.NewUserIdentity(found), nil
}

// FindWorkspaceByID checks that a workspace exists.
func (r *IdentityRepository) FindWorkspaceByID(ctx context.Context, id string) (identity.WorkspaceIdentity, error) {
	var found string
	err := r.pool.QueryRow(ctx, `SELECT id FROM workspaces WHERE id = $1`, id).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return identity.WorkspaceIdentity{}, oops.Code("WORKSPACE_NOT_FOUND").With("workspace_id", id).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return identity.WorkspaceIdentity{}, oops.Code("WORKSPACE_QUERY_FAILED").
			With("operation", "find workspace by id").
			With("workspace_id", id).
			Wrap(err)
	}
	return identity.NewWorkspaceIdentity(found), nil
}

// Create inserts the user and its credential row in one statement.
func (r *IdentityRepository) Create(ctx context.Context, user identity.UserIdentity, identifier string, cred *credential.StoredCredential) error {
	_, err := r.pool.Exec(ctx, `
		WITH u AS (
			INSERT INTO users (id, identifier) VALUES ($1, $2) RETURNING id
		)
		INSERT INTO credentials (user_id, password_hash)
		SELECT id, $3 FROM u
	`, user.ID(), identifier, cred.HashForVerification())
	if isUniqueViolation(err) {
		return oops.Code("USER_DUPLICATE").Wrap(auth.ErrDuplicateIdentifier)
	}
	if err != nil {
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("user_id", user.ID()).
			Wrap(err)
	}
	return nil
}

var _ auth.IdentityRepository = (*IdentityRepository)(nil)
