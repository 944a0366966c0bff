// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package identity holds the opaque identifiers the authentication core
// reasons about. Identifiers are created by repositories on lookup and are
// never mutated.
package identity

import (
	"github.com/holomush/authcore/internal/autherr"
)

// UserIdentity identifies an end user.
type UserIdentity struct {
	id string
}

// NewUserIdentity wraps a user id.
func NewUserIdentity(id string) UserIdentity {
	return UserIdentity{id: id}
}

// ID returns the raw identifier.
func (u UserIdentity) ID() string { return u.id }

// ToClaimsID is the only sanctioned projection into token claims.
func (u UserIdentity) ToClaimsID() string { return u.id }

// IsZero reports whether the identity is unset.
func (u UserIdentity) IsZero() bool { return u.id == "" }

func (u UserIdentity) String() string { return "UserIdentity(" + u.id + ")" }

// WorkspaceIdentity identifies a tenant workspace.
type WorkspaceIdentity struct {
	id string
}

// NewWorkspaceIdentity wraps a workspace id.
func NewWorkspaceIdentity(id string) WorkspaceIdentity {
	return WorkspaceIdentity{id: id}
}

// ID returns the raw identifier.
func (w WorkspaceIdentity) ID() string { return w.id }

// ToClaimsID is the only sanctioned projection into token claims.
func (w WorkspaceIdentity) ToClaimsID() string { return w.id }

// IsZero reports whether the identity is unset.
func (w WorkspaceIdentity) IsZero() bool { return w.id == "" }

func (w WorkspaceIdentity) String() string { return "WorkspaceIdentity(" + w.id + ")" }

// ContextualIdentity is a user, a workspace, or a user acting within a
// workspace. At least one side is always present.
type ContextualIdentity struct {
	user      *UserIdentity
	workspace *WorkspaceIdentity
}

// NewContextualIdentity composes the optional sides. It fails with an
// invariant error when both are nil.
func NewContextualIdentity(user *UserIdentity, workspace *WorkspaceIdentity) (ContextualIdentity, error) {
	if user == nil && workspace == nil {
		return ContextualIdentity{}, autherr.New(
			autherr.InvalidConfiguration("ContextualIdentity requires a user or a workspace"))
	}
	c := ContextualIdentity{}
	if user != nil {
		u := *user
		c.user = &u
	}
	if workspace != nil {
		w := *workspace
		c.workspace = &w
	}
	return c, nil
}

// ForUser builds a user-only contextual identity.
func ForUser(user UserIdentity) ContextualIdentity {
	return ContextualIdentity{user: &user}
}

// ForWorkspace builds a workspace-only contextual identity.
func ForWorkspace(workspace WorkspaceIdentity) ContextualIdentity {
	return ContextualIdentity{workspace: &workspace}
}

// User returns the user side, if present.
func (c ContextualIdentity) User() (UserIdentity, bool) {
	if c.user == nil {
		return UserIdentity{}, false
	}
	return *c.user, true
}

// Workspace returns the workspace side, if present.
func (c ContextualIdentity) Workspace() (WorkspaceIdentity, bool) {
	if c.workspace == nil {
		return WorkspaceIdentity{}, false
	}
	return *c.workspace, true
}

// HasUser reports whether a user is present.
func (c ContextualIdentity) HasUser() bool { return c.user != nil }

// HasWorkspace reports whether a workspace is present.
func (c ContextualIdentity) HasWorkspace() bool { return c.workspace != nil }

// ToClaims projects the identity into its claims form.
func (c ContextualIdentity) ToClaims() IdentityClaims {
	var claims IdentityClaims
	if c.user != nil {
		claims.UserID = c.user.ToClaimsID()
	}
	if c.workspace != nil {
		claims.WorkspaceID = c.workspace.ToClaimsID()
	}
	return claims
}

func (c ContextualIdentity) String() string {
	switch {
	case c.user != nil && c.workspace != nil:
		return c.user.String() + "@" + c.workspace.String()
	case c.user != nil:
		return c.user.String()
	case c.workspace != nil:
		return c.workspace.String()
	default:
		return "<anonymous>"
	}
}

// IdentityClaims is the serializable identity projection embedded in token
// claims. An empty string means the side is absent.
type IdentityClaims struct {
	UserID      string `json:"user_id,omitempty"`
	WorkspaceID string `json:"workspace_id,omitempty"`
}

// IsEmpty reports whether both sides are absent.
func (c IdentityClaims) IsEmpty() bool {
	return c.UserID == "" && c.WorkspaceID == ""
}
