package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")

	jsonBody := `{
		"app": { "log_level": "debug", "token": "US:abc", "hostname": "vault.local" },
		"storage": {
			"kind": "sqlite",
			"file_path": "/etc/ksm.json",
			"db": { "dsn": "/var/lib/ksm.db", "name": "prod" },
			"aws": { "secret_id": "ksm/config", "region": "eu-west-1" }
		},
		"adapter": { "request_timeout": "30s", "retry_attempts": 4, "retry_base_delay": 1000000 },
		"cache": { "enabled": true, "kind": "memory" },
		"workers": { "download_concurrency": 6 },
		"quicktest": { "record_uid": "uid1", "field": "login", "list_folders": true }
	}`

	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, App{LogLevel: "debug", Token: "US:abc", Hostname: "vault.local"}, cfg.App)

	assert.Equal(t, "sqlite", cfg.Storage.Kind)
	assert.Equal(t, "/etc/ksm.json", cfg.Storage.FilePath)
	assert.Equal(t, DB{DSN: "/var/lib/ksm.db", Name: "prod"}, cfg.Storage.DB)
	assert.Equal(t, "ksm/config", cfg.Storage.AWS.SecretID)
	assert.Equal(t, "eu-west-1", cfg.Storage.AWS.Region)

	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, uint64(4), cfg.Adapter.RetryAttempts)
	assert.Equal(t, time.Millisecond, cfg.Adapter.RetryBaseDelay)

	assert.Equal(t, Cache{Enabled: true, Kind: "memory"}, cfg.Cache)
	assert.Equal(t, 6, cfg.Workers.DownloadConcurrency)
	assert.Equal(t, "uid1", cfg.QuickTest.RecordUID)
	assert.Equal(t, "login", cfg.QuickTest.Field)
	assert.True(t, cfg.QuickTest.ListFolders)
}

func TestParseJSON_FileNotFound(t *testing.T) {
	// Act
	cfg, err := parseJSON("definitely-does-not-exist.json")

	// Assert
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error reading a json file")
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(p, []byte(`{ this is not json }`), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestParseJSON_InvalidDuration(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "bad_duration.json")

	jsonBody := `{
		"adapter": { "request_timeout": "not-a-duration" }
	}`
	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestParseJSON_EmptyObject(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(p, []byte(`{}`), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// With non-pointer nested structs, all fields are zero values.
	assert.Equal(t, StructuredConfig{}, *cfg)
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := Duration(90 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"1m30s"`, string(b))
}

func TestClientConfig_Validate(t *testing.T) {
	base := func() *ClientConfig {
		return NewClientConfig(&StructuredConfig{Storage: Storage{FilePath: "cfg.json"}})
	}

	tests := []struct {
		name   string
		mutate func(c *ClientConfig)
		want   error
	}{
		{name: "defaults are valid", mutate: func(c *ClientConfig) {}},
		{
			name:   "unknown storage",
			mutate: func(c *ClientConfig) { c.Storage.Kind = "etcd" },
			want:   ErrInvalidStorageConfigs,
		},
		{
			name:   "memory without blob or token",
			mutate: func(c *ClientConfig) { c.Storage.Kind = StorageMemory },
			want:   ErrInvalidStorageConfigs,
		},
		{
			name:   "memory with token",
			mutate: func(c *ClientConfig) { c.Storage.Kind = StorageMemory; c.App.Token = "US:abc" },
		},
		{
			name:   "sqlite in-memory dsn",
			mutate: func(c *ClientConfig) { c.Storage.Kind = StorageSQLite; c.Storage.DB.DSN = ":memory:" },
			want:   ErrInvalidStorageConfigs,
		},
		{
			name:   "aws without secret",
			mutate: func(c *ClientConfig) { c.Storage.Kind = StorageAWS },
			want:   ErrInvalidStorageConfigs,
		},
		{
			name:   "negative timeout",
			mutate: func(c *ClientConfig) { c.Adapter.RequestTimeout = -time.Second },
			want:   ErrInvalidAdapterConfigs,
		},
		{
			name:   "sqlite cache without dsn",
			mutate: func(c *ClientConfig) { c.Cache.Enabled = true; c.Cache.Kind = StorageSQLite },
			want:   ErrInvalidCacheConfigs,
		},
		{
			name:   "zero concurrency",
			mutate: func(c *ClientConfig) { c.Workers.DownloadConcurrency = 0 },
			want:   ErrInvalidWorkerConfigs,
		},
		{
			name:   "token without region or hostname",
			mutate: func(c *ClientConfig) { c.App.Token = "abc" },
			want:   ErrInvalidAppConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
