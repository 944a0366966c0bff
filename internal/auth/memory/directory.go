// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/identity"
)

type credentialRow struct {
	hash           string
	failedAttempts uint32
	lockedUntil    string
}

// Directory holds users, workspaces and credentials. It implements
// auth.IdentityRepository, auth.CredentialRepository and
// auth.AttemptIncrementer. Identifiers match case-insensitively.
type Directory struct {
	mu          sync.RWMutex
	byIdent     map[string]identity.UserIdentity
	users       map[string]identity.UserIdentity
	workspaces  map[string]identity.WorkspaceIdentity
	credentials map[string]*credentialRow
}

// NewDirectory creates an empty Directory.
func NewDirectory() *Directory {
	return &Directory{
		byIdent:     make(map[string]identity.UserIdentity),
		users:       make(map[string]identity.UserIdentity),
		workspaces:  make(map[string]identity.WorkspaceIdentity),
		credentials: make(map[string]*credentialRow),
	}
}

func normalize(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// AddWorkspace registers a workspace.
func (d *Directory) AddWorkspace(ws identity.WorkspaceIdentity) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.workspaces[ws.ID()] = ws
}

// FindByIdentifier looks up a user by login identifier.
func (d *Directory) FindByIdentifier(_ context.Context, identifier string) (identity.UserIdentity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	user, ok := d.byIdent[normalize(identifier)]
	if !ok {
		return identity.UserIdentity{}, oops.Code("USER_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	return user, nil
}

// FindByID looks up a user by id.
func (d *Directory) FindByID(_ context.Context, id string) (identity.UserIdentity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	user, ok := d.users[id]
	if !ok {
		return identity.UserIdentity{}, oops.Code("USER_NOT_FOUND").With("user_id", id).Wrap(auth.ErrNotFound)
	}
	return user, nil
}

// FindWorkspaceByID looks up a workspace by id.
func (d *Directory) FindWorkspaceByID(_ context.Context, id string) (identity.WorkspaceIdentity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ws, ok := d.workspaces[id]
	if !ok {
		return identity.WorkspaceIdentity{}, oops.Code("WORKSPACE_NOT_FOUND").With("workspace_id", id).Wrap(auth.ErrNotFound)
	}
	return ws, nil
}

// Create stores a user with its initial credential.
func (d *Directory) Create(_ context.Context, user identity.UserIdentity, identifier string, cred *credential.StoredCredential) error {
	key := normalize(identifier)
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, taken := d.byIdent[key]; taken {
		return oops.Code("USER_DUPLICATE").With("identifier", identifier).Wrap(auth.ErrDuplicateIdentifier)
	}
	if _, taken := d.users[user.ID()]; taken {
		return oops.Code("USER_DUPLICATE").With("user_id", user.ID()).Wrap(auth.ErrDuplicateIdentifier)
	}
	d.byIdent[key] = user
	d.users[user.ID()] = user
	d.credentials[user.ID()] = &credentialRow{hash: cred.HashForVerification()}
	return nil
}

// GetByUserID returns a snapshot of the stored credential.
func (d *Directory) GetByUserID(_ context.Context, userID string) (*credential.StoredCredential, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	row, ok := d.credentials[userID]
	if !ok {
		return nil, credentialNotFound(userID)
	}
	return credential.FromParts(row.hash, row.failedAttempts, row.lockedUntil), nil
}

// UpdateFailedAttempts sets the failed attempt counter.
func (d *Directory) UpdateFailedAttempts(_ context.Context, userID string, attempts uint32) error {
	return d.mutate(userID, func(row *credentialRow) { row.failedAttempts = attempts })
}

// IncrementFailedAttempts adds one to the counter under the write lock.
func (d *Directory) IncrementFailedAttempts(_ context.Context, userID string) (uint32, error) {
	var n uint32
	err := d.mutate(userID, func(row *credentialRow) {
		row.failedAttempts++
		n = row.failedAttempts
	})
	return n, err
}

// LockUntil sets the lock expiry.
func (d *Directory) LockUntil(_ context.Context, userID, until string) error {
	return d.mutate(userID, func(row *credentialRow) { row.lockedUntil = until })
}

// UpdatePassword replaces the hash and clears lockout state.
func (d *Directory) UpdatePassword(_ context.Context, userID string, cred *credential.StoredCredential) error {
	return d.mutate(userID, func(row *credentialRow) {
		row.hash = cred.HashForVerification()
		row.failedAttempts = 0
		row.lockedUntil = ""
	})
}

// InitializeCredentialState resets the counter and lock.
func (d *Directory) InitializeCredentialState(_ context.Context, userID string) error {
	return d.mutate(userID, func(row *credentialRow) {
		row.failedAttempts = 0
		row.lockedUntil = ""
	})
}

func (d *Directory) mutate(userID string, fn func(*credentialRow)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	row, ok := d.credentials[userID]
	if !ok {
		return credentialNotFound(userID)
	}
	fn(row)
	return nil
}

func credentialNotFound(userID string) error {
	return oops.Code("CREDENTIAL_NOT_FOUND").With("user_id", userID).Wrap(auth.ErrNotFound)
}

var (
	_ auth.IdentityRepository   = (*Directory)(nil)
	_ auth.CredentialRepository = (*Directory)(nil)
	_ auth.AttemptIncrementer   = (*Directory)(nil)
)
