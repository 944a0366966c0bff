// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import "errors"

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateIdentifier is returned by IdentityRepository.Create when the
// identifier is already taken.
var ErrDuplicateIdentifier = errors.New("identifier already exists")
