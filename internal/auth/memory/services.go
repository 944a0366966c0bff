// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package memory

import (
	"context"
	"sync"

	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/auth"
)

type serviceRow struct {
	name   string
	active bool
}

// Services implements auth.ServiceRegistry in memory. Keys are held only as
// their auth.HashAPIKey digest.
type Services struct {
	mu     sync.RWMutex
	byHash map[string]*serviceRow
	byName map[string]*serviceRow
}

// NewServices creates an empty registry.
func NewServices() *Services {
	return &Services{
		byHash: make(map[string]*serviceRow),
		byName: make(map[string]*serviceRow),
	}
}

// Register adds an active service or replaces the key of an existing one.
func (s *Services) Register(_ context.Context, name, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.byName[name]; ok {
		for h, r := range s.byHash {
			if r == row {
				delete(s.byHash, h)
			}
		}
		row.active = true
		s.byHash[auth.HashAPIKey(key)] = row
		return nil
	}
	row := &serviceRow{name: name, active: true}
	s.byName[name] = row
	s.byHash[auth.HashAPIKey(key)] = row
	return nil
}

// SetActive enables or disables a registered service.
func (s *Services) SetActive(_ context.Context, name string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.byName[name]
	if !ok {
		return oops.Code("SERVICE_NOT_FOUND").With("service", name).Wrap(auth.ErrNotFound)
	}
	row.active = active
	return nil
}

// ValidateAPIKey returns the service owning key.
func (s *Services) ValidateAPIKey(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.byHash[auth.HashAPIKey(key)]
	if !ok {
		return "", oops.Code("SERVICE_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	return row.name, nil
}

// IsServiceActive reports whether name is registered and active.
func (s *Services) IsServiceActive(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.byName[name]
	return ok && row.active, nil
}

var _ auth.ServiceRegistry = (*Services)(nil)
