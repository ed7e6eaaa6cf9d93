// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetGlobal puts the singleton back to a zero value between tests.
func resetGlobal() {
	Global = IntakeConfig{}
}

// TestLoadInternal_CreatesDefault verifies first-run config creation.
func TestLoadInternal_CreatesDefault(t *testing.T) {
	resetGlobal()
	path := filepath.Join(t.TempDir(), "intakeflow.yaml")

	require.NoError(t, loadInternal(path))

	// The file now exists and parsed into Global.
	_, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, 12310, Global.Server.Port)
	assert.Equal(t, "release", Global.Server.GinMode)
	assert.Equal(t, "memory", Global.Store.Backend)
	assert.Equal(t, "configs/catalog.yaml", Global.Catalog.Path)
	assert.Equal(t, "Pending", Global.Roles.Pending)
	assert.Equal(t, "Verified", Global.Roles.Verified)
}

// TestLoadInternal_ParsesExisting verifies a hand-edited file wins over
// defaults.
func TestLoadInternal_ParsesExisting(t *testing.T) {
	resetGlobal()
	path := filepath.Join(t.TempDir(), "intakeflow.yaml")
	content := `server:
  port: 9000
  gin_mode: debug
catalog:
  path: /etc/intake/catalog.yaml
store:
  backend: badger
  badger_path: /var/lib/intake
roles:
  pending: Newcomer
  incoming: Guest
  verified: Member
observability:
  tracing: true
  otel_endpoint: collector:4317
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	require.NoError(t, loadInternal(path))

	assert.Equal(t, 9000, Global.Server.Port)
	assert.Equal(t, "debug", Global.Server.GinMode)
	assert.Equal(t, "/etc/intake/catalog.yaml", Global.Catalog.Path)
	assert.Equal(t, "badger", Global.Store.Backend)
	assert.Equal(t, "/var/lib/intake", Global.Store.BadgerPath)
	assert.Equal(t, "Newcomer", Global.Roles.Pending)
	assert.True(t, Global.Observability.Tracing)
	assert.Equal(t, "collector:4317", Global.Observability.OTelEndpoint)
}

// TestLoadInternal_EnvOverrides verifies secrets can stay out of the file.
func TestLoadInternal_EnvOverrides(t *testing.T) {
	resetGlobal()
	path := filepath.Join(t.TempDir(), "intakeflow.yaml")

	t.Setenv("INTAKE_SINK_URL", "https://hooks.example.com/forms")
	t.Setenv("INTAKE_SINK_TOKEN", "sink-secret")
	t.Setenv("INTAKE_ROLE_DIRECTORY_URL", "https://dir.example.com")
	t.Setenv("INTAKE_ROLE_DIRECTORY_TOKEN", "dir-secret")
	t.Setenv("INTAKE_REDIS_URL", "redis://localhost:6379/0")

	require.NoError(t, loadInternal(path))

	assert.Equal(t, "https://hooks.example.com/forms", Global.Sink.URL)
	assert.Equal(t, "sink-secret", Global.Sink.AuthToken)
	assert.Equal(t, "https://dir.example.com", Global.Roles.DirectoryURL)
	assert.Equal(t, "dir-secret", Global.Roles.DirectoryToken)
	assert.Equal(t, "redis://localhost:6379/0", Global.Store.RedisURL)
}

// TestLoadInternal_BadYAML verifies a parse failure is reported.
func TestLoadInternal_BadYAML(t *testing.T) {
	resetGlobal()
	path := filepath.Join(t.TempDir(), "intakeflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0644))

	err := loadInternal(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse the config file")
}
