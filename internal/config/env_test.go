// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"KSM_CONFIG": "/path/to/config.json",

		"KSM_APP_LOG_LEVEL": "debug",
		"KSM_APP_TOKEN":     "US:abc",
		"KSM_APP_HOSTNAME":  "vault.local",

		// Storage has nested prefixes: STORAGE_ + DB_ / AWS_
		"KSM_STORAGE_KIND":          "aws",
		"KSM_STORAGE_CONFIG_BLOB":   "e30=",
		"KSM_STORAGE_FILE_PATH":     "/etc/ksm.json",
		"KSM_STORAGE_DB_DSN":        "/var/lib/ksm.db",
		"KSM_STORAGE_DB_NAME":       "prod",
		"KSM_STORAGE_AWS_SECRET_ID": "ksm/config",
		"KSM_STORAGE_AWS_REGION":    "eu-west-1",
		"KSM_STORAGE_AWS_PROFILE":   "ops",

		"KSM_ADAPTER_REQUEST_TIMEOUT":  "10s",
		"KSM_ADAPTER_RETRY_ATTEMPTS":   "5",
		"KSM_ADAPTER_RETRY_BASE_DELAY": "50ms",

		"KSM_CACHE_ENABLED": "true",
		"KSM_CACHE_KIND":    "sqlite",
		"KSM_CACHE_DSN":     "/var/lib/ksm-cache.db",

		"KSM_WORKERS_DOWNLOAD_CONCURRENCY": "8",

		"KSM_QUICKTEST_RECORD_UID": "uid1",
		"KSM_QUICKTEST_CLIPBOARD":  "true",
	}
	for k, v := range envVars {
		t.Setenv(k, v)
	}

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "US:abc", cfg.App.Token)
	assert.Equal(t, "vault.local", cfg.App.Hostname)

	assert.Equal(t, "aws", cfg.Storage.Kind)
	assert.Equal(t, "e30=", cfg.Storage.Blob)
	assert.Equal(t, "/etc/ksm.json", cfg.Storage.FilePath)
	assert.Equal(t, "/var/lib/ksm.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "prod", cfg.Storage.DB.Name)
	assert.Equal(t, "ksm/config", cfg.Storage.AWS.SecretID)
	assert.Equal(t, "eu-west-1", cfg.Storage.AWS.Region)
	assert.Equal(t, "ops", cfg.Storage.AWS.Profile)

	assert.Equal(t, 10*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, uint64(5), cfg.Adapter.RetryAttempts)
	assert.Equal(t, 50*time.Millisecond, cfg.Adapter.RetryBaseDelay)

	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "sqlite", cfg.Cache.Kind)
	assert.Equal(t, "/var/lib/ksm-cache.db", cfg.Cache.DSN)

	assert.Equal(t, 8, cfg.Workers.DownloadConcurrency)

	assert.Equal(t, "uid1", cfg.QuickTest.RecordUID)
	assert.True(t, cfg.QuickTest.Clipboard)
}

func TestParseEnv_IgnoresUnprefixed(t *testing.T) {
	t.Setenv("APP_LOG_LEVEL", "debug")

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Empty(t, cfg.App.LogLevel)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	t.Setenv("KSM_ADAPTER_RETRY_BASE_DELAY", "not-a-duration")

	err := parseEnv(&StructuredConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error getting env configs")
}
