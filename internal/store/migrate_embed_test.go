// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package store

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsFS_EmbeddedFiles(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)

	names := make(map[string]bool)
	pattern := regexp.MustCompile(`^\d{6}_\w+\.(up|down)\.sql$`)
	for _, entry := range entries {
		names[entry.Name()] = true
		assert.Regexp(t, pattern, entry.Name())
	}

	for _, base := range []string{"000001_identity_credential", "000002_auth_session", "000003_service_registry"} {
		assert.True(t, names[base+".up.sql"], "missing %s.up.sql", base)
		assert.True(t, names[base+".down.sql"], "missing %s.down.sql", base)
	}
}

func TestMigrations_Ordered(t *testing.T) {
	migrations, err := Migrations()
	require.NoError(t, err)
	assert.Equal(t, []Migration{
		{Version: 1, Name: "000001_identity_credential"},
		{Version: 2, Name: "000002_auth_session"},
		{Version: 3, Name: "000003_service_registry"},
	}, migrations)
}
