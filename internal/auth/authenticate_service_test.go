// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/auth/mocks"
	"github.com/holomush/authcore/pkg/errutil"
)

func TestAuthenticateService(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		key    string
		setup  func(r *mocks.MockServiceRegistry)
		want   string
		code   string
		reason string
	}{
		{
			name: "active service",
			key:  "key-1",
			setup: func(r *mocks.MockServiceRegistry) {
				r.On("ValidateAPIKey", mock.Anything, "key-1").Return("billing", nil)
				r.On("IsServiceActive", mock.Anything, "billing").Return(true, nil)
			},
			want: "billing",
		},
		{
			name:   "empty key",
			setup:  func(*mocks.MockServiceRegistry) {},
			code:   "CREDENTIAL_MISSING_REQUIRED",
			reason: "api_key",
		},
		{
			name: "unknown key",
			key:  "key-x",
			setup: func(r *mocks.MockServiceRegistry) {
				r.On("ValidateAPIKey", mock.Anything, "key-x").Return("", auth.ErrNotFound)
			},
			code:   "CREDENTIAL_VERIFICATION_FAILED",
			reason: "service key not recognized",
		},
		{
			name: "inactive service",
			key:  "key-1",
			setup: func(r *mocks.MockServiceRegistry) {
				r.On("ValidateAPIKey", mock.Anything, "key-1").Return("billing", nil)
				r.On("IsServiceActive", mock.Anything, "billing").Return(false, nil)
			},
			code:   "AUTH_ACCOUNT_LOCKED",
			reason: "service billing is inactive",
		},
		{
			name: "registry unavailable",
			key:  "key-1",
			setup: func(r *mocks.MockServiceRegistry) {
				r.On("ValidateAPIKey", mock.Anything, "key-1").Return("", errors.New("connection refused"))
			},
			code: "INVARIANT_DEPENDENCY_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := mocks.NewMockServiceRegistry(t)
			tt.setup(registry)
			uc, err := auth.NewAuthenticateService(registry)
			require.NoError(t, err)

			out, err := uc.Execute(ctx, auth.AuthenticateServiceInput{APIKey: tt.key})

			if tt.code != "" {
				errutil.AssertErrorCode(t, err, tt.code)
				assert.Contains(t, err.Error(), tt.reason)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.ServiceName)
		})
	}
}
