// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/identity"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestIdentityRepository_FindByIdentifier(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		want      identity.UserIdentity
		notFound  bool
		wantErr   bool
	}{
		{
			name: "found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT id FROM users WHERE LOWER\(identifier\) = LOWER\(\$1\)`).
					WithArgs("Alice@example.com").
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("user-1"))
			},
			want: identity.NewUserIdentity("user-1"),
		},
		{
			name: "not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT id FROM users`).
					WithArgs("Alice@example.com").
					WillReturnRows(pgxmock.NewRows([]string{"id"}))
			},
			wantErr:  true,
			notFound: true,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT id FROM users`).
					WithArgs("Alice@example.com").
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			tt.setupMock(mock)

			got, err := NewIdentityRepository(mock).FindByIdentifier(context.Background(), "Alice@example.com")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.notFound, errors.Is(err, auth.ErrNotFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdentityRepository_FindByID(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT id FROM users WHERE id = \$1`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("user-1"))
	mock.ExpectQuery(`SELECT id FROM users WHERE id = \$1`).
		WithArgs("user-9").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	repo := NewIdentityRepository(mock)
	got, err := repo.FindByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID())

	_, err = repo.FindByID(context.Background(), "user-9")
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestIdentityRepository_FindWorkspaceByID(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT id FROM workspaces WHERE id = \$1`).
		WithArgs("ws-1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("ws-1"))
	mock.ExpectQuery(`SELECT id FROM workspaces WHERE id = \$1`).
		WithArgs("ws-9").
		WillReturnError(errors.New("timeout"))

	repo := NewIdentityRepository(mock)
	got, err := repo.FindWorkspaceByID(context.Background(), "ws-1")
	require.NoError(t, err)
	assert.Equal(t, identity.NewWorkspaceIdentity("ws-1"), got)

	_, err = repo.FindWorkspaceByID(context.Background(), "ws-9")
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrNotFound)
}

func TestIdentityRepository_Create(t *testing.T) {
	user := identity.NewUserIdentity("user-1")
	cred := credential.FromHash("$argon2id$hash")

	t.Run("inserts user and credential", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(`(?s)INSERT INTO users.*INSERT INTO credentials`).
			WithArgs("user-1", "bob@example.com", "$argon2id$hash").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, NewIdentityRepository(mock).Create(context.Background(), user, "bob@example.com", cred))
	})

	t.Run("duplicate identifier", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(`INSERT INTO users`).
			WithArgs("user-1", "bob@example.com", "$argon2id$hash").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		err := NewIdentityRepository(mock).Create(context.Background(), user, "bob@example.com", cred)
		assert.ErrorIs(t, err, auth.ErrDuplicateIdentifier)
	})

	t.Run("other failure", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(`INSERT INTO users`).
			WithArgs("user-1", "bob@example.com", "$argon2id$hash").
			WillReturnError(errors.New("disk full"))

		err := NewIdentityRepository(mock).Create(context.Background(), user, "bob@example.com", cred)
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrDuplicateIdentifier)
	})
}
