// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/holomush/authcore/internal/auth"
)

const namespace = "authcore"

// Metrics holds the auth outcome counters. It implements auth.Recorder.
type Metrics struct {
	AuthAttemptsTotal      *prometheus.CounterVec
	AccountsLockedTotal    prometheus.Counter
	SessionsIssuedTotal    prometheus.Counter
	SessionsRefreshedTotal *prometheus.CounterVec
	SessionsRevokedTotal   prometheus.Counter
	TokenValidationsTotal  *prometheus.CounterVec
	SessionsSweptTotal     prometheus.Counter
}

// NewMetrics creates the counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AuthAttemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Password login attempts by outcome",
		}, []string{"outcome"}),
		AccountsLockedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accounts_locked_total",
			Help:      "Accounts locked after repeated failures",
		}),
		SessionsIssuedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_issued_total",
			Help:      "Sessions created at login",
		}),
		SessionsRefreshedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_refreshed_total",
			Help:      "Successful refreshes by whether the refresh token was rotated",
		}, []string{"rotated"}),
		SessionsRevokedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_revoked_total",
			Help:      "Sessions revoked by logout or revoke-all",
		}),
		TokenValidationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_validations_total",
			Help:      "Access token validations by result",
		}, []string{"result"}),
		SessionsSweptTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_swept_total",
			Help:      "Expired sessions deleted by the sweeper",
		}),
	}

	reg.MustRegister(
		m.AuthAttemptsTotal,
		m.AccountsLockedTotal,
		m.SessionsIssuedTotal,
		m.SessionsRefreshedTotal,
		m.SessionsRevokedTotal,
		m.TokenValidationsTotal,
		m.SessionsSweptTotal,
	)
	return m
}

// AuthAttempt counts a login attempt.
func (m *Metrics) AuthAttempt(outcome string) { m.AuthAttemptsTotal.WithLabelValues(outcome).Inc() }

// AccountLocked counts a lockout.
func (m *Metrics) AccountLocked() { m.AccountsLockedTotal.Inc() }

// SessionIssued counts a new session.
func (m *Metrics) SessionIssued() { m.SessionsIssuedTotal.Inc() }

// SessionRefreshed counts a refresh.
func (m *Metrics) SessionRefreshed(rotated bool) {
	m.SessionsRefreshedTotal.WithLabelValues(strconv.FormatBool(rotated)).Inc()
}

// SessionsRevoked counts n revocations.
func (m *Metrics) SessionsRevoked(n int64) {
	if n > 0 {
		m.SessionsRevokedTotal.Add(float64(n))
	}
}

// TokenValidated counts an access token verdict.
func (m *Metrics) TokenValidated(result string) { m.TokenValidationsTotal.WithLabelValues(result).Inc() }

// SessionsDeleted counts sessions removed by the sweeper.
func (m *Metrics) SessionsDeleted(n int64) {
	if n > 0 {
		m.SessionsSweptTotal.Add(float64(n))
	}
}

var _ auth.Recorder = (*Metrics)(nil)
