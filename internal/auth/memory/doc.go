// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package memory provides in-process implementations of the auth ports.
// They back the development "memory" session store and the scenario tests.
// All state is lost when the process exits.
package memory
