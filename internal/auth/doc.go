// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package auth is the orchestration layer of the authentication core. It
// decides whether a login succeeds, when an account locks, and how sessions
// and their token pairs are issued, rotated and revoked.
//
// The package knows nothing about transport, storage engines or
// cryptographic primitives. Those are reached only through the ports
// declared in ports.go.
//
// # Use Cases
//
//   - [AuthenticateUser]: verifies an identifier/password pair under a [LockoutPolicy].
//   - [IssueSession]: mints an access/refresh token pair and persists the session.
//   - [RefreshSession]: exchanges a refresh token for a new access token, optionally rotating.
//   - [RevokeSession]: revokes a session by id or by refresh token hash.
//   - [RevokeAllSessions]: revokes every session of a user.
//   - [ValidateAccessToken]: reports whether an access token is currently valid.
//   - [AuthenticateService]: checks a service-to-service API key.
//   - [RegisterCredential]: creates an identity with a validated password.
//
// Use cases never call each other. A transport layer sequences them, for
// example AuthenticateUser followed by IssueSession.
//
// # Errors
//
// Every failure is an *autherr.Error. Port failures other than absence
// become invariant errors of kind DependencyUnavailable.
//
// # Concurrency
//
// Use cases hold no mutable state and are safe for concurrent use. The
// adapters must serialize per-user failed-attempt increments and make
// session revocation atomic; see [AttemptIncrementer] and
// [SessionRepository.RevokeSession].
package auth
