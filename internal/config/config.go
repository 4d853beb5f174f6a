// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "KSM_"

// StructuredConfig is the top-level configuration container. It is populated
// by merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:       direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds SDK-wide settings: logging and the one-time token.
	App App `envPrefix:"APP_"`

	// Storage selects and configures the configuration store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds timeouts and retry policy of the vault transport.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Cache configures the optional offline response cache.
	Cache Cache `envPrefix:"CACHE_"`

	// Workers holds concurrency limits for bulk file transfer.
	Workers Workers `envPrefix:"WORKERS_"`

	// QuickTest holds the parameters of the ksm-quicktest command.
	QuickTest QuickTest `envPrefix:"QUICKTEST_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via KSM_CONFIG or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds SDK-wide settings.
type App struct {
	// LogLevel is a zerolog level name. Env: KSM_APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// Token is a one-time access token "REGION:KEY" used to bind a fresh
	// configuration. Env: KSM_APP_TOKEN
	Token string `env:"TOKEN"`

	// Hostname overrides the vault host derived from the token's region.
	// Env: KSM_APP_HOSTNAME
	Hostname string `env:"HOSTNAME"`
}

// Storage holds the configuration store settings.
type Storage struct {
	// Kind selects the backend: memory, file, sqlite or aws.
	// Env: KSM_STORAGE_KIND
	Kind string `env:"KIND"`

	// Blob is the base64 configuration used by the memory backend.
	// Env: KSM_STORAGE_CONFIG_BLOB
	Blob string `env:"CONFIG_BLOB"`

	// FilePath is the JSON configuration file of the file backend.
	// Env: KSM_STORAGE_FILE_PATH
	FilePath string `env:"FILE_PATH"`

	// DB holds sqlite settings of the sqlite backend.
	DB DB `envPrefix:"DB_"`

	// AWS holds the AWS Secrets Manager settings of the aws backend.
	AWS AWS `envPrefix:"AWS_"`
}

// DB holds local database settings.
type DB struct {
	// DSN is the sqlite data source name (a file path).
	// Env: KSM_STORAGE_DB_DSN
	DSN string `env:"DSN"`

	// Name is the row key the configuration is stored under, so one
	// database can hold several configurations.
	// Env: KSM_STORAGE_DB_NAME
	Name string `env:"NAME"`
}

// AWS holds AWS Secrets Manager settings.
type AWS struct {
	// SecretID is the name or ARN of the secret holding the blob.
	// Env: KSM_STORAGE_AWS_SECRET_ID
	SecretID string `env:"SECRET_ID"`

	// Region overrides the region of the default AWS config chain.
	// Env: KSM_STORAGE_AWS_REGION
	Region string `env:"REGION"`

	// Profile selects a shared config profile.
	// Env: KSM_STORAGE_AWS_PROFILE
	Profile string `env:"PROFILE"`
}

// Adapter holds vault transport settings.
type Adapter struct {
	// RequestTimeout bounds a single HTTP exchange (e.g. "30s").
	// Env: KSM_ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// RetryAttempts is the number of retries after a network failure.
	// Env: KSM_ADAPTER_RETRY_ATTEMPTS
	RetryAttempts uint64 `env:"RETRY_ATTEMPTS"`

	// RetryBaseDelay is the first backoff interval; it doubles per attempt.
	// Env: KSM_ADAPTER_RETRY_BASE_DELAY
	RetryBaseDelay time.Duration `env:"RETRY_BASE_DELAY"`
}

// Cache holds the offline response cache settings.
type Cache struct {
	// Enabled turns the cache on. Env: KSM_CACHE_ENABLED
	Enabled bool `env:"ENABLED"`

	// Kind is memory or sqlite. Env: KSM_CACHE_KIND
	Kind string `env:"KIND"`

	// DSN is the sqlite file of the sqlite cache. Env: KSM_CACHE_DSN
	DSN string `env:"DSN"`
}

// Workers holds bulk transfer limits.
type Workers struct {
	// DownloadConcurrency caps parallel attachment downloads.
	// Env: KSM_WORKERS_DOWNLOAD_CONCURRENCY
	DownloadConcurrency int `env:"DOWNLOAD_CONCURRENCY"`
}

// QuickTest holds the parameters of the ksm-quicktest command.
type QuickTest struct {
	// RecordUID selects the record to print; empty means the first one.
	RecordUID string `env:"RECORD_UID"`

	// Field is the standard field type to print. Defaults to "password".
	Field string `env:"FIELD"`

	// Notation, when set, is resolved instead of RecordUID/Field.
	Notation string `env:"NOTATION"`

	// UploadPath is a local file to attach to the selected record.
	UploadPath string `env:"UPLOAD_PATH"`

	// UploadTitle is the attachment title. Defaults to the file name.
	UploadTitle string `env:"UPLOAD_TITLE"`

	// Clipboard copies the printed value to the system clipboard.
	Clipboard bool `env:"CLIPBOARD"`

	// ListFolders prints the folder hierarchy.
	ListFolders bool `env:"LIST_FOLDERS"`
}

// GetStructuredConfig loads and merges the configuration from all sources
// in the following priority order (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags parsed from args
//  3. JSON file (path resolved from sources 1 and 2)
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}
