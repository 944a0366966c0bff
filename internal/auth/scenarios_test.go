// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/auth/argon2"
	"github.com/holomush/authcore/internal/auth/jwt"
	"github.com/holomush/authcore/internal/auth/memory"
	"github.com/holomush/authcore/internal/autherr"
	"github.com/holomush/authcore/internal/credential"
	"github.com/holomush/authcore/internal/identity"
	"github.com/holomush/authcore/internal/token"
)

const (
	scenarioIdentifier = "alice@example.com"
	scenarioPassword   = "correct horse battery"
)

// scenarioFixture wires the use cases to in-memory adapters, a real argon2
// hasher with cheap parameters and a real JWT service.
type scenarioFixture struct {
	ctx       context.Context
	clock     *auth.FixedClock
	directory *memory.Directory
	sessions  *memory.Sessions
	hasher    *argon2.Hasher
	tokens    *jwt.Service
	user      identity.UserIdentity
}

func newSigningKey() []byte {
	encoded, err := jwt.GenerateKey()
	Expect(err).NotTo(HaveOccurred())
	key, err := jwt.DecodeKey(encoded)
	Expect(err).NotTo(HaveOccurred())
	return key
}

func newScenarioFixture() *scenarioFixture {
	clock := auth.NewFixedClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	tokens, err := jwt.NewService(newSigningKey(), jwt.WithIssuer("authcore-test"), jwt.WithClock(clock))
	Expect(err).NotTo(HaveOccurred())

	f := &scenarioFixture{
		ctx:       context.Background(),
		clock:     clock,
		directory: memory.NewDirectory(),
		sessions:  memory.NewSessions(clock),
		hasher:    argon2.NewHasherWithParams(argon2.Params{Time: 1, Memory: 1024, Threads: 1, SaltLen: 16, KeyLen: 32}),
		tokens:    tokens,
	}

	register, err := auth.NewRegisterCredential(f.directory, f.directory, f.hasher, credential.DefaultPolicy(), auth.WithClock(clock))
	Expect(err).NotTo(HaveOccurred())
	out, err := register.Execute(f.ctx, auth.RegisterCredentialInput{
		Identifier: scenarioIdentifier,
		Password:   credential.NewRawCredential(scenarioPassword),
	})
	Expect(err).NotTo(HaveOccurred())
	f.user = out.User
	return f
}

func (f *scenarioFixture) login(policy auth.LockoutPolicy, password string) (*auth.AuthenticateUserOutput, error) {
	uc, err := auth.NewAuthenticateUser(f.directory, f.directory, f.hasher, policy, auth.WithClock(f.clock))
	Expect(err).NotTo(HaveOccurred())
	return uc.Execute(f.ctx, auth.AuthenticateUserInput{
		Identifier: scenarioIdentifier,
		Password:   credential.NewRawCredential(password),
	})
}

func (f *scenarioFixture) issue(ip string) *auth.IssueSessionOutput {
	uc, err := auth.NewIssueSession(f.sessions, f.tokens, auth.DefaultTokenPolicy(), auth.WithClock(f.clock))
	Expect(err).NotTo(HaveOccurred())
	out, err := uc.Execute(f.ctx, auth.IssueSessionInput{User: f.user, IPAddress: ip, UserAgent: "ginkgo"})
	Expect(err).NotTo(HaveOccurred())
	return out
}

func (f *scenarioFixture) refresher(rotate bool) *auth.RefreshSession {
	policy := auth.DefaultTokenPolicy()
	policy.OneTimeRefresh = rotate
	uc, err := auth.NewRefreshSession(f.sessions, f.tokens, policy, auth.WithClock(f.clock))
	Expect(err).NotTo(HaveOccurred())
	return uc
}

func (f *scenarioFixture) failedAttempts() uint32 {
	stored, err := f.directory.GetByUserID(f.ctx, f.user.ID())
	Expect(err).NotTo(HaveOccurred())
	return stored.FailedAttempts()
}

var _ = Describe("Credential policy", func() {
	It("rejects a short secret and accepts a long one", func() {
		policy := credential.DefaultPolicy()
		Expect(policy.MinLength).To(Equal(8))

		err := credential.NewRawCredential("abc").Validate(policy)
		coreErr, ok := autherr.As(err)
		Expect(ok).To(BeTrue())
		credErr, ok := coreErr.Credential()
		Expect(ok).To(BeTrue())
		Expect(credErr.Kind).To(Equal(autherr.KindInsufficientStrength))

		Expect(credential.NewRawCredential("longenough").Validate(policy)).To(Succeed())
	})
})

var _ = Describe("Login lockout", func() {
	var f *scenarioFixture

	BeforeEach(func() {
		f = newScenarioFixture()
	})

	It("locks after max attempts and keeps rejecting the correct password while locked", func() {
		policy := auth.LockoutPolicy{MaxAttempts: 3, LockDuration: 30 * time.Minute, ResetOnSuccess: true}

		for range 3 {
			_, err := f.login(policy, "wrong password")
			Expect(autherr.CodeOf(err)).To(Equal("AUTH_USER_NOT_FOUND"))
		}
		stored, err := f.directory.GetByUserID(f.ctx, f.user.ID())
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.IsLockedAt(f.clock.Now())).To(BeTrue())

		_, err = f.login(policy, scenarioPassword)
		Expect(autherr.CodeOf(err)).To(Equal("AUTH_ACCOUNT_LOCKED"))

		By("succeeding once the lock has passed")
		f.clock.Advance(30 * time.Minute)
		out, err := f.login(policy, scenarioPassword)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.User).To(Equal(f.user))
	})

	It("starts a fresh count after a lock has passed", func() {
		policy := auth.LockoutPolicy{MaxAttempts: 3, LockDuration: 3 * time.Minute, ResetOnSuccess: true}

		for range 3 {
			_, err := f.login(policy, "wrong password")
			Expect(err).To(HaveOccurred())
		}
		f.clock.Advance(3 * time.Minute)

		_, err := f.login(policy, "wrong password")
		Expect(autherr.CodeOf(err)).To(Equal("AUTH_USER_NOT_FOUND"))
		Expect(f.failedAttempts()).To(Equal(uint32(1)))

		out, err := f.login(policy, scenarioPassword)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.User).To(Equal(f.user))
	})

	It("resets the failure counter on success", func() {
		policy := auth.DefaultLockoutPolicy()
		_, err := f.login(policy, "wrong password")
		Expect(err).To(HaveOccurred())
		_, err = f.login(policy, "wrong again")
		Expect(err).To(HaveOccurred())
		Expect(f.failedAttempts()).To(Equal(uint32(2)))

		_, err = f.login(policy, scenarioPassword)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.failedAttempts()).To(BeZero())
	})
})

var _ = Describe("Sessions", func() {
	var f *scenarioFixture

	BeforeEach(func() {
		f = newScenarioFixture()
	})

	It("issues independent sessions per login", func() {
		first := f.issue("198.51.100.1")
		second := f.issue("198.51.100.2")

		Expect(first.SessionID).NotTo(Equal(second.SessionID))
		Expect(f.sessions.Len()).To(Equal(2))

		a, err := f.sessions.FindByRefreshTokenHash(f.ctx, auth.HashRefreshToken(first.RefreshToken.Value()))
		Expect(err).NotTo(HaveOccurred())
		b, err := f.sessions.FindByRefreshTokenHash(f.ctx, auth.HashRefreshToken(second.RefreshToken.Value()))
		Expect(err).NotTo(HaveOccurred())
		Expect(a.IPAddress).To(Equal("198.51.100.1"))
		Expect(b.IPAddress).To(Equal("198.51.100.2"))
	})

	It("refreshes without rotation and returns no refresh token", func() {
		issued := f.issue("198.51.100.1")
		f.clock.Advance(time.Minute)

		out, err := f.refresher(false).Execute(f.ctx, auth.RefreshSessionInput{RefreshToken: issued.RefreshToken})
		Expect(err).NotTo(HaveOccurred())
		Expect(out.RefreshToken).To(BeNil())
		Expect(out.AccessToken.IsEmpty()).To(BeFalse())
		Expect(out.SessionID).To(Equal(issued.SessionID))
	})

	It("rotates the refresh token and rejects the old one", func() {
		issued := f.issue("198.51.100.1")
		refresh := f.refresher(true)

		out, err := refresh.Execute(f.ctx, auth.RefreshSessionInput{RefreshToken: issued.RefreshToken})
		Expect(err).NotTo(HaveOccurred())
		Expect(out.RefreshToken).NotTo(BeNil())
		Expect(out.RefreshToken.Value()).NotTo(Equal(issued.RefreshToken.Value()))
		Expect(out.SessionID).NotTo(Equal(issued.SessionID))

		_, err = refresh.Execute(f.ctx, auth.RefreshSessionInput{RefreshToken: issued.RefreshToken})
		Expect(err).To(HaveOccurred())
	})

	It("revokes every session of a user", func() {
		f.issue("198.51.100.1")
		f.issue("198.51.100.2")

		uc, err := auth.NewRevokeAllSessions(f.sessions, auth.WithClock(f.clock))
		Expect(err).NotTo(HaveOccurred())
		out, err := uc.Execute(f.ctx, auth.RevokeAllSessionsInput{UserID: f.user.ID()})
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Revoked).To(Equal(int64(2)))
	})
})

var _ = Describe("Access token validation", func() {
	It("reports an expired token as invalid", func() {
		f := newScenarioFixture()
		issued := f.issue("198.51.100.1")
		validate, err := auth.NewValidateAccessToken(f.tokens, auth.WithClock(f.clock))
		Expect(err).NotTo(HaveOccurred())

		out, err := validate.Execute(f.ctx, auth.ValidateAccessTokenInput{AccessToken: issued.AccessToken})
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Valid).To(BeTrue())
		Expect(out.UserID).To(Equal(f.user.ID()))
		Expect(out.SessionID).To(Equal(issued.SessionID))

		f.clock.Advance(auth.DefaultAccessTTL)
		out, err = validate.Execute(f.ctx, auth.ValidateAccessTokenInput{AccessToken: issued.AccessToken})
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Valid).To(BeFalse())
		Expect(out.Reason).To(Equal("token expired"))
	})

	It("rejects a token signed with another key", func() {
		f := newScenarioFixture()
		other, err := jwt.NewService(newSigningKey())
		Expect(err).NotTo(HaveOccurred())
		claims, err := token.NewSessionClaims(f.user.ID(), token.TypeAccess, f.clock.Now().Add(time.Hour), "").Encode()
		Expect(err).NotTo(HaveOccurred())
		forged, err := other.IssueAccessToken(f.user.ID(), claims)
		Expect(err).NotTo(HaveOccurred())

		validate, err := auth.NewValidateAccessToken(f.tokens, auth.WithClock(f.clock))
		Expect(err).NotTo(HaveOccurred())
		out, err := validate.Execute(f.ctx, auth.ValidateAccessTokenInput{AccessToken: forged})
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Valid).To(BeFalse())
		Expect(out.Reason).To(Equal(auth.ReasonSignatureInvalid))
	})
})
