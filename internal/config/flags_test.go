package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags_AllFlags(t *testing.T) {
	args := []string{
		"-config", "/etc/ksm/config.json",
		"-log-level", "debug",
		"-token", "EU:token",
		"-hostname", "127.0.0.1:8080",
		"-storage", "sqlite",
		"-blob", "e30=",
		"-f", "cfg.json",
		"-d", "ksm.db",
		"-db-name", "ci",
		"-aws-secret-id", "ksm/config",
		"-aws-region", "us-east-2",
		"-aws-profile", "dev",
		"-request-timeout", "5s",
		"-retry-attempts", "2",
		"-retry-delay", "100ms",
		"-cache",
		"-cache-kind", "sqlite",
		"-cache-dsn", "cache.db",
		"-download-concurrency", "3",
		"-record", "uid",
		"-field", "login",
		"-notation", "uid/field/login",
		"-upload", "/tmp/a.txt",
		"-upload-title", "A",
		"-clipboard",
		"-folders",
	}

	cfg, err := ParseFlags(args)
	require.NoError(t, err)

	assert.Equal(t, "/etc/ksm/config.json", cfg.JSONFilePath)
	assert.Equal(t, App{LogLevel: "debug", Token: "EU:token", Hostname: "127.0.0.1:8080"}, cfg.App)
	assert.Equal(t, Storage{
		Kind:     "sqlite",
		Blob:     "e30=",
		FilePath: "cfg.json",
		DB:       DB{DSN: "ksm.db", Name: "ci"},
		AWS:      AWS{SecretID: "ksm/config", Region: "us-east-2", Profile: "dev"},
	}, cfg.Storage)
	assert.Equal(t, Adapter{RequestTimeout: 5 * time.Second, RetryAttempts: 2, RetryBaseDelay: 100 * time.Millisecond}, cfg.Adapter)
	assert.Equal(t, Cache{Enabled: true, Kind: "sqlite", DSN: "cache.db"}, cfg.Cache)
	assert.Equal(t, 3, cfg.Workers.DownloadConcurrency)
	assert.Equal(t, QuickTest{
		RecordUID:   "uid",
		Field:       "login",
		Notation:    "uid/field/login",
		UploadPath:  "/tmp/a.txt",
		UploadTitle: "A",
		Clipboard:   true,
		ListFolders: true,
	}, cfg.QuickTest)
}

func TestParseFlags_ShortConfigAlias(t *testing.T) {
	cfg, err := ParseFlags([]string{"-c", "short.json"})
	require.NoError(t, err)
	assert.Equal(t, "short.json", cfg.JSONFilePath)
}

func TestParseFlags_Empty(t *testing.T) {
	cfg, err := ParseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"-unknown"}},
		{name: "bad duration", args: []string{"-request-timeout", "fast"}},
		{name: "bad integer", args: []string{"-download-concurrency", "many"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags(tt.args)
			assert.Error(t, err)
		})
	}
}
