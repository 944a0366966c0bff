// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package mocks provides testify mocks for the auth ports.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/identity"
	"github.com/holomush/authcore/internal/token"
)

// TestingT is satisfied by *testing.T.
type TestingT interface {
	mock.TestingT
	Cleanup(func())
}

func register(m *mock.Mock, t TestingT) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

// MockIdentityRepository mocks auth.IdentityRepository.
type MockIdentityRepository struct {
	mock.Mock
}

var _ auth.IdentityRepository = (*MockIdentityRepository)(nil)

// NewMockIdentityRepository creates a mock that asserts its expectations on cleanup.
func NewMockIdentityRepository(t TestingT) *MockIdentityRepository {
	m := &MockIdentityRepository{}
	register(&m.Mock, t)
	return m
}

// FindByIdentifier mocks the method.
func (m *MockIdentityRepository) FindByIdentifier(ctx context.Context, identifier string) (identity.UserIdentity, error) {
	args := m.Called(ctx, identifier)
	return args.Get(0).(identity.UserIdentity), args.Error(1)
}

// FindByID mocks the method.
func (m *MockIdentityRepository) FindByID(ctx context.Context, id string) (identity.UserIdentity, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(identity.UserIdentity), args.Error(1)
}

// FindWorkspaceByID mocks the method.
func (m *MockIdentityRepository) FindWorkspaceByID(ctx context.Context, id string) (identity.WorkspaceIdentity, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(identity.WorkspaceIdentity), args.Error(1)
}

// Create mocks the method.
func (m *MockIdentityRepository) Create(ctx context.Context, user identity.UserIdentity, identifier string, cred *credential.StoredCredential) error {
	args := m.Called(ctx, user, identifier, cred)
	return args.Error(0)
}

// MockCredentialRepository mocks auth.CredentialRepository.
type MockCredentialRepository struct {
	mock.Mock
}

var _ auth.CredentialRepository = (*MockCredentialRepository)(nil)

// NewMockCredentialRepository creates a mock that asserts its expectations on cleanup.
func NewMockCredentialRepository(t TestingT) *MockCredentialRepository {
	m := &MockCredentialRepository{}
	register(&m.Mock, t)
	return m
}

// GetByUserID mocks the method.
func (m *MockCredentialRepository) GetByUserID(ctx context.Context, userID string) (*credential.StoredCredential, error) {
	args := m.Called(ctx, userID)
	if c := args.Get(0); c != nil {
		return c.(*credential.StoredCredential), args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateFailedAttempts mocks the method.
func (m *MockCredentialRepository) UpdateFailedAttempts(ctx context.Context, userID string, attempts uint32) error {
	return m.Called(ctx, userID, attempts).Error(0)
}

// LockUntil mocks the method.
func (m *MockCredentialRepository) LockUntil(ctx context.Context, userID, until string) error {
	return m.Called(ctx, userID, until).Error(0)
}

// UpdatePassword mocks the method.
func (m *MockCredentialRepository) UpdatePassword(ctx context.Context, userID string, cred *credential.StoredCredential) error {
	return m.Called(ctx, userID, cred).Error(0)
}

// InitializeCredentialState mocks the method.
func (m *MockCredentialRepository) InitializeCredentialState(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// MockAtomicCredentialRepository is a MockCredentialRepository that also
// implements auth.AttemptIncrementer.
type MockAtomicCredentialRepository struct {
	MockCredentialRepository
}

var _ auth.AttemptIncrementer = (*MockAtomicCredentialRepository)(nil)

// NewMockAtomicCredentialRepository creates a mock that asserts its expectations on cleanup.
func NewMockAtomicCredentialRepository(t TestingT) *MockAtomicCredentialRepository {
	m := &MockAtomicCredentialRepository{}
	register(&m.Mock, t)
	return m
}

// IncrementFailedAttempts mocks the method.
func (m *MockAtomicCredentialRepository) IncrementFailedAttempts(ctx context.Context, userID string) (uint32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(uint32), args.Error(1)
}

// MockSessionRepository mocks auth.SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

var _ auth.SessionRepository = (*MockSessionRepository)(nil)

// NewMockSessionRepository creates a mock that asserts its expectations on cleanup.
func NewMockSessionRepository(t TestingT) *MockSessionRepository {
	m := &MockSessionRepository{}
	register(&m.Mock, t)
	return m
}

// CreateSession mocks the method.
func (m *MockSessionRepository) CreateSession(ctx context.Context, session *auth.Session) error {
	return m.Called(ctx, session).Error(0)
}

// FindByRefreshTokenHash mocks the method.
func (m *MockSessionRepository) FindByRefreshTokenHash(ctx context.Context, hash string) (*auth.Session, error) {
	args := m.Called(ctx, hash)
	if s := args.Get(0); s != nil {
		return s.(*auth.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

// RevokeSession mocks the method.
func (m *MockSessionRepository) RevokeSession(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

// RevokeAllForUser mocks the method.
func (m *MockSessionRepository) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteExpired mocks the method.
func (m *MockSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockPasswordHasher mocks auth.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// NewMockPasswordHasher creates a mock that asserts its expectations on cleanup.
func NewMockPasswordHasher(t TestingT) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	register(&m.Mock, t)
	return m
}

// Hash mocks the method. The raw credential is passed to Called as-is.
func (m *MockPasswordHasher) Hash(raw *credential.RawCredential) (*credential.StoredCredential, error) {
	args := m.Called(raw)
	if c := args.Get(0); c != nil {
		return c.(*credential.StoredCredential), args.Error(1)
	}
	return nil, args.Error(1)
}

// Verify mocks the method.
func (m *MockPasswordHasher) Verify(raw string, stored *credential.StoredCredential) bool {
	return m.Called(raw, stored).Bool(0)
}

// MockRehashingPasswordHasher is a MockPasswordHasher that also implements
// auth.Rehasher.
type MockRehashingPasswordHasher struct {
	MockPasswordHasher
}

var _ auth.Rehasher = (*MockRehashingPasswordHasher)(nil)

// NewMockRehashingPasswordHasher creates a mock that asserts its expectations on cleanup.
func NewMockRehashingPasswordHasher(t TestingT) *MockRehashingPasswordHasher {
	m := &MockRehashingPasswordHasher{}
	register(&m.Mock, t)
	return m
}

// NeedsRehash mocks the method.
func (m *MockRehashingPasswordHasher) NeedsRehash(stored *credential.StoredCredential) bool {
	return m.Called(stored).Bool(0)
}

// MockTokenService mocks auth.TokenService.
type MockTokenService struct {
	mock.Mock
}

var _ auth.TokenService = (*MockTokenService)(nil)

// NewMockTokenService creates a mock that asserts its expectations on cleanup.
func NewMockTokenService(t TestingT) *MockTokenService {
	m := &MockTokenService{}
	register(&m.Mock, t)
	return m
}

// IssueAccessToken mocks the method.
func (m *MockTokenService) IssueAccessToken(subject, claims string) (token.Token, error) {
	args := m.Called(subject, claims)
	return args.Get(0).(token.Token), args.Error(1)
}

// IssueRefreshToken mocks the method.
func (m *MockTokenService) IssueRefreshToken(subject, claims string) (token.Token, error) {
	args := m.Called(subject, claims)
	return args.Get(0).(token.Token), args.Error(1)
}

// ValidateAccessToken mocks the method.
func (m *MockTokenService) ValidateAccessToken(tok token.Token) (string, error) {
	args := m.Called(tok)
	return args.String(0), args.Error(1)
}

// ValidateRefreshToken mocks the method.
func (m *MockTokenService) ValidateRefreshToken(tok token.Token) (string, error) {
	args := m.Called(tok)
	return args.String(0), args.Error(1)
}

// MockServiceRegistry mocks auth.ServiceRegistry.
type MockServiceRegistry struct {
	mock.Mock
}

var _ auth.ServiceRegistry = (*MockServiceRegistry)(nil)

// NewMockServiceRegistry creates a mock that asserts its expectations on cleanup.
func NewMockServiceRegistry(t TestingT) *MockServiceRegistry {
	m := &MockServiceRegistry{}
	register(&m.Mock, t)
	return m
}

// ValidateAPIKey mocks the method.
func (m *MockServiceRegistry) ValidateAPIKey(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

// IsServiceActive mocks the method.
func (m *MockServiceRegistry) IsServiceActive(ctx context.Context, serviceName string) (bool, error) {
	args := m.Called(ctx, serviceName)
	return args.Bool(0), args.Error(1)
}

// MockRecorder mocks auth.Recorder.
type MockRecorder struct {
	mock.Mock
}

var _ auth.Recorder = (*MockRecorder)(nil)

// NewMockRecorder creates a mock that asserts its expectations on cleanup.
func NewMockRecorder(t TestingT) *MockRecorder {
	m := &MockRecorder{}
	register(&m.Mock, t)
	return m
}

// AuthAttempt mocks the method.
func (m *MockRecorder) AuthAttempt(outcome string) { m.Called(outcome) }

// AccountLocked mocks the method.
func (m *MockRecorder) AccountLocked() { m.Called() }

// SessionIssued mocks the method.
func (m *MockRecorder) SessionIssued() { m.Called() }

// SessionRefreshed mocks the method.
func (m *MockRecorder) SessionRefreshed(rotated bool) { m.Called(rotated) }

// SessionsRevoked mocks the method.
func (m *MockRecorder) SessionsRevoked(n int64) { m.Called(n) }

// TokenValidated mocks the method.
func (m *MockRecorder) TokenValidated(result string) { m.Called(result) }
