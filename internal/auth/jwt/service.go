// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package jwt implements auth.TokenService with HS256-signed JWTs.
//
// The service checks signatures and structure only. Expiry is carried in the
// claims and judged by the caller against its own clock.
package jwt

import (
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/token"
)

type wireClaims struct {
	Type string `json:"type,omitempty"`
	Sid  string `json:"sid,omitempty"`
	gojwt.RegisteredClaims
}

// Service signs and parses tokens with a shared HMAC key.
type Service struct {
	key    []byte
	issuer string
	clock  auth.Clock
}

var _ auth.TokenService = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithIssuer sets the iss claim on issued tokens and requires it on parsed ones.
func WithIssuer(issuer string) Option {
	return func(s *Service) { s.issuer = issuer }
}

// WithClock sets the clock used for the iat claim.
func WithClock(clock auth.Clock) Option {
	return func(s *Service) { s.clock = clock }
}

// NewService creates a Service. key must be KeySize bytes.
func NewService(key []byte, opts ...Option) (*Service, error) {
	if len(key) != KeySize {
		return nil, oops.Code("JWT_KEY_INVALID").With("length", len(key)).Errorf("signing key must be %d bytes", KeySize)
	}
	s := &Service{key: append([]byte(nil), key...), clock: auth.SystemClock{}}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// IssueAccessToken signs an access token.
func (s *Service) IssueAccessToken(subject, claims string) (token.Token, error) {
	return s.issue(subject, claims)
}

// IssueRefreshToken signs a refresh token.
func (s *Service) IssueRefreshToken(subject, claims string) (token.Token, error) {
	return s.issue(subject, claims)
}

// ValidateAccessToken verifies the token and returns its claims.
func (s *Service) ValidateAccessToken(tok token.Token) (string, error) {
	return s.parse(tok)
}

// ValidateRefreshToken verifies the token and returns its claims.
func (s *Service) ValidateRefreshToken(tok token.Token) (string, error) {
	return s.parse(tok)
}

func (s *Service) issue(subject, payload string) (token.Token, error) {
	sc, err := token.DecodeSessionClaims(payload)
	if err != nil {
		return token.Token{}, oops.Code("JWT_CLAIMS_INVALID").Wrap(err)
	}
	if subject == "" {
		return token.Token{}, oops.Code("JWT_CLAIMS_INVALID").Errorf("subject is empty")
	}
	if sc.Sub != "" && sc.Sub != subject {
		return token.Token{}, oops.Code("JWT_CLAIMS_INVALID").
			With("subject", subject).
			Errorf("claims subject does not match")
	}

	wc := wireClaims{
		Type: string(sc.Type),
		Sid:  sc.Sid,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:  subject,
			Issuer:   s.issuer,
			IssuedAt: gojwt.NewNumericDate(s.clock.Now()),
		},
	}
	if sc.Exp != 0 {
		wc.ExpiresAt = gojwt.NewNumericDate(time.Unix(sc.Exp, 0))
	}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, wc).SignedString(s.key)
	if err != nil {
		return token.Token{}, oops.Code("JWT_SIGN_FAILED").Wrap(err)
	}
	return token.New(signed), nil
}

func (s *Service) parse(tok token.Token) (string, error) {
	if tok.IsEmpty() {
		return "", oops.Code("JWT_MALFORMED").Errorf("token is empty")
	}

	var wc wireClaims
	_, err := gojwt.ParseWithClaims(tok.Value(), &wc, func(*gojwt.Token) (any, error) {
		return s.key, nil
	},
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return "", oops.Code("JWT_INVALID").Wrap(err)
	}
	if s.issuer != "" && wc.Issuer != s.issuer {
		return "", oops.Code("JWT_ISSUER_MISMATCH").
			With("expected", s.issuer).
			With("actual", wc.Issuer).
			Errorf("token issuer mismatch")
	}

	sc := token.SessionClaims{
		Sub:  wc.Subject,
		Type: token.Type(wc.Type),
		Sid:  wc.Sid,
	}
	if wc.ExpiresAt != nil {
		sc.Exp = wc.ExpiresAt.Unix()
	}
	payload, err := sc.Encode()
	if err != nil {
		return "", oops.Code("JWT_CLAIMS_INVALID").Wrap(err)
	}
	return payload, nil
}
