// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package credential holds the credential vocabulary of the authentication
// core.
//
// # Types
//
//   - [RawCredential]: a plaintext secret presented during a single attempt.
//     It is handled by pointer, must not be copied, and is consumed exactly
//     once by [RawCredential.IntoInner].
//   - [StoredCredential]: the opaque persisted form plus lockout counters.
//     Only a password hasher reads the hash, through
//     [StoredCredential.HashForVerification].
//   - [Policy]: pure validation rules applied to a RawCredential.
//   - [Status]: the lifecycle state of a credential.
//
// Nothing in this package hashes, logs or persists secrets.
package credential
