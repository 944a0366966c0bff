// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/auth"
)

// ServiceRegistry implements auth.ServiceRegistry using PostgreSQL. Keys are
// stored hashed with auth.HashAPIKey.
type ServiceRegistry struct {
	pool poolIface
}

// NewServiceRegistry creates a new ServiceRegistry.
func NewServiceRegistry(pool poolIface) *ServiceRegistry {
	return &ServiceRegistry{pool: pool}
}

// ValidateAPIKey returns the name of the service owning key.
func (r *ServiceRegistry) ValidateAPIKey(ctx context.Context, key string) (string, error) {
	var name string
	err := r.pool.QueryRow(ctx, `SELECT name FROM services WHERE api_key_hash = $1`, auth.HashAPIKey(key)).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", oops.Code("SERVICE_KEY_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return "", oops.Code("SERVICE_QUERY_FAILED").With("operation", "validate api key").Wrap(err)
	}
	return name, nil
}

// IsServiceActive reports whether the service may authenticate. Unknown
// services are inactive.
func (r *ServiceRegistry) IsServiceActive(ctx context.Context, name string) (bool, error) {
	var active bool
	err := r.pool.QueryRow(ctx, `SELECT active FROM services WHERE name = $1`, name).Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, oops.Code("SERVICE_QUERY_FAILED").
			With("operation", "check service active").
			With("service", name).
			Wrap(err)
	}
	return active, nil
}

// Register stores key for the named service, replacing any previous key and
// reactivating it.
func (r *ServiceRegistry) Register(ctx context.Context, name, key string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO services (name, api_key_hash, active) VALUES ($1, $2, TRUE)
		ON CONFLICT (name) DO UPDATE SET api_key_hash = EXCLUDED.api_key_hash, active = TRUE
	`, name, auth.HashAPIKey(key))
	if err != nil {
		return oops.Code("SERVICE_REGISTER_FAILED").With("service", name).Wrap(err)
	}
	return nil
}

// SetActive enables or disables a service.
func (r *ServiceRegistry) SetActive(ctx context.Context, name string, active bool) error {
	result, err := r.pool.Exec(ctx, `UPDATE services SET active = $2 WHERE name = $1`, name, active)
	if err != nil {
		return oops.Code("SERVICE_UPDATE_FAILED").With("service", name).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("SERVICE_NOT_FOUND").With("service", name).Wrap(auth.ErrNotFound)
	}
	return nil
}

var _ auth.ServiceRegistry = (*ServiceRegistry)(nil)
