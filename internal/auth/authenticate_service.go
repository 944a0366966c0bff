// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"

	"github.com/holomush/authcore/internal/autherr"
)

// AuthenticateServiceInput carries the API key presented by a calling service.
type AuthenticateServiceInput struct {
	APIKey string
}

// AuthenticateServiceOutput names the authenticated service.
type AuthenticateServiceOutput struct {
	ServiceName string
}

// AuthenticateService checks a service-to-service API key against the
// registry and requires the owning service to be active.
type AuthenticateService struct {
	registry ServiceRegistry
	opts     options
}

// NewAuthenticateService creates the use case.
func NewAuthenticateService(registry ServiceRegistry, opts ...Option) (*AuthenticateService, error) {
	if registry == nil {
		return nil, autherr.New(autherr.InvalidConfiguration("authenticate service requires a service registry"))
	}
	return &AuthenticateService{registry: registry, opts: applyOptions(opts)}, nil
}

// Execute checks the key.
func (uc *AuthenticateService) Execute(ctx context.Context, in AuthenticateServiceInput) (*AuthenticateServiceOutput, error) {
	if in.APIKey == "" {
		return nil, autherr.New(autherr.MissingRequired("api_key"))
	}

	name, err := uc.registry.ValidateAPIKey(ctx, in.APIKey)
	if err != nil {
		if isNotFound(err) {
			return nil, autherr.New(autherr.VerificationFailed("service key not recognized"))
		}
		return nil, dependencyError("service_registry", "validate api key", err)
	}

	active, err := uc.registry.IsServiceActive(ctx, name)
	if err != nil {
		return nil, dependencyError("service_registry", "is service active", err)
	}
	if !active {
		uc.opts.logger.WarnContext(ctx, "inactive service presented a valid key", "service", name)
		return nil, autherr.New(autherr.AccountLocked("service " + name + " is inactive"))
	}

	return &AuthenticateServiceOutput{ServiceName: name}, nil
}
