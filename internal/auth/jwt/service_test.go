// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package jwt_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/auth/jwt"
	"github.com/holomush/authcore/internal/token"
	"github.com/holomush/authcore/pkg/errutil"
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func testKey() []byte { return bytes.Repeat([]byte{0x42}, jwt.KeySize) }

func newService(t *testing.T, opts ...jwt.Option) *jwt.Service {
	t.Helper()
	opts = append([]jwt.Option{jwt.WithClock(auth.NewFixedClock(testNow))}, opts...)
	s, err := jwt.NewService(testKey(), opts...)
	require.NoError(t, err)
	return s
}

func TestService_RoundTrip(t *testing.T) {
	s := newService(t)
	claims := `{"sub":"user-1","type":"access","exp":1777637700,"sid":"sess-1"}`

	tok, err := s.IssueAccessToken("user-1", claims)
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(tok.Value(), ".")))

	payload, err := s.ValidateAccessToken(tok)
	require.NoError(t, err)
	assert.JSONEq(t, claims, payload)
}

func TestService_RefreshRoundTripWithoutSessionID(t *testing.T) {
	s := newService(t)

	tok, err := s.IssueRefreshToken("user-1", `{"sub":"user-1","type":"refresh","exp":1778241600}`)
	require.NoError(t, err)

	payload, err := s.ValidateRefreshToken(tok)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sub":"user-1","type":"refresh","exp":1778241600}`, payload)
}

func TestService_ExpiredTokenStillParses(t *testing.T) {
	s := newService(t)
	tok, err := s.IssueAccessToken("user-1", `{"sub":"user-1","type":"access","exp":1000}`)
	require.NoError(t, err)

	payload, err := s.ValidateAccessToken(tok)
	require.NoError(t, err, "expiry is judged by the caller")
	sc, err := token.DecodeSessionClaims(payload)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), sc.Exp)
}

func TestService_SubjectFromArgument(t *testing.T) {
	s := newService(t)
	tok, err := s.IssueAccessToken("user-1", `{"type":"access","exp":1777637700}`)
	require.NoError(t, err)

	payload, err := s.ValidateAccessToken(tok)
	require.NoError(t, err)
	sc, err := token.DecodeSessionClaims(payload)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sc.Sub)
}

func TestService_IssueRejects(t *testing.T) {
	s := newService(t)

	_, err := s.IssueAccessToken("user-1", "not json")
	errutil.AssertErrorCode(t, err, "JWT_CLAIMS_INVALID")

	_, err = s.IssueAccessToken("", `{"type":"access","exp":1}`)
	errutil.AssertErrorCode(t, err, "JWT_CLAIMS_INVALID")

	_, err = s.IssueAccessToken("user-1", `{"sub":"user-2","type":"access","exp":1}`)
	errutil.AssertErrorCode(t, err, "JWT_CLAIMS_INVALID")
}

func TestService_ValidateRejects(t *testing.T) {
	s := newService(t)
	good, err := s.IssueAccessToken("user-1", `{"sub":"user-1","type":"access","exp":1777637700}`)
	require.NoError(t, err)

	otherKey := bytes.Repeat([]byte{0x07}, jwt.KeySize)
	other, err := jwt.NewService(otherKey)
	require.NoError(t, err)

	none, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.MapClaims{"sub": "user-1"}).
		SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, gojwt.MapClaims{"sub": "user-1"}).
		SignedString(testKey())
	require.NoError(t, err)

	parts := strings.Split(good.Value(), ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := []struct {
		name string
		tok  token.Token
		code string
	}{
		{"empty", token.New(""), "JWT_MALFORMED"},
		{"garbage", token.New("not.a.jwt"), "JWT_INVALID"},
		{"tampered payload", token.New(tampered), "JWT_INVALID"},
		{"none algorithm", token.New(none), "JWT_INVALID"},
		{"other HMAC algorithm", token.New(hs512), "JWT_INVALID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ValidateAccessToken(tt.tok)
			errutil.AssertErrorCode(t, err, tt.code)
		})
	}

	t.Run("wrong key", func(t *testing.T) {
		_, err := other.ValidateRefreshToken(good)
		errutil.AssertErrorCode(t, err, "JWT_INVALID")
	})
}

func TestService_Issuer(t *testing.T) {
	issuing := newService(t, jwt.WithIssuer("authcore"))
	tok, err := issuing.IssueAccessToken("user-1", `{"type":"access","exp":1777637700}`)
	require.NoError(t, err)

	_, err = issuing.ValidateAccessToken(tok)
	require.NoError(t, err)

	_, err = newService(t, jwt.WithIssuer("elsewhere")).ValidateAccessToken(tok)
	errutil.AssertErrorCode(t, err, "JWT_ISSUER_MISMATCH")
}

func TestNewService_KeyLength(t *testing.T) {
	_, err := jwt.NewService([]byte("short"))
	errutil.AssertErrorCode(t, err, "JWT_KEY_INVALID")
}
