package config

import (
	"fmt"
	"time"
)

// Storage kinds.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageAWS    = "aws"
)

// Defaults applied by [GetClientConfig] to unset fields.
const (
	DefaultConfigFile          = "ksm-config.json"
	DefaultConfigName          = "default"
	DefaultRequestTimeout      = 30 * time.Second
	DefaultRetryAttempts       = 3
	DefaultRetryBaseDelay      = 200 * time.Millisecond
	DefaultDownloadConcurrency = 4
	DefaultQuickTestField      = "password"
)

// ClientApp holds SDK-wide client settings.
type ClientApp struct {
	LogLevel string
	Token    string
	Hostname string
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the sqlite file path.
	DSN string
	// Name is the configuration row key.
	Name string
}

// ClientAWS contains AWS Secrets Manager settings.
type ClientAWS struct {
	SecretID string
	Region   string
	Profile  string
}

// ClientStorage groups configuration store settings.
type ClientStorage struct {
	Kind     string
	Blob     string
	FilePath string
	DB       ClientDB
	AWS      ClientAWS
}

// ClientAdapter holds vault transport settings.
type ClientAdapter struct {
	RequestTimeout time.Duration
	RetryAttempts  uint64
	RetryBaseDelay time.Duration
}

// ClientCache holds the response cache settings.
type ClientCache struct {
	Enabled bool
	Kind    string
	DSN     string
}

// ClientWorkers contains bulk transfer limits.
type ClientWorkers struct {
	DownloadConcurrency int
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App       ClientApp
	Storage   ClientStorage
	Adapter   ClientAdapter
	Cache     ClientCache
	Workers   ClientWorkers
	QuickTest QuickTest
}

// GetClientConfig builds and validates the client configuration from the
// merged structured configuration, applying defaults to unset fields.
func GetClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := NewClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

// NewClientConfig maps a structured config onto the client view and fills
// in defaults. It does not validate.
func NewClientConfig(cfg *StructuredConfig) *ClientConfig {
	clientCfg := &ClientConfig{
		App: ClientApp{
			LogLevel: cfg.App.LogLevel,
			Token:    cfg.App.Token,
			Hostname: cfg.App.Hostname,
		},
		Storage: ClientStorage{
			Kind:     cfg.Storage.Kind,
			Blob:     cfg.Storage.Blob,
			FilePath: cfg.Storage.FilePath,
			DB: ClientDB{
				DSN:  cfg.Storage.DB.DSN,
				Name: cfg.Storage.DB.Name,
			},
			AWS: ClientAWS{
				SecretID: cfg.Storage.AWS.SecretID,
				Region:   cfg.Storage.AWS.Region,
				Profile:  cfg.Storage.AWS.Profile,
			},
		},
		Adapter: ClientAdapter{
			RequestTimeout: cfg.Adapter.RequestTimeout,
			RetryAttempts:  cfg.Adapter.RetryAttempts,
			RetryBaseDelay: cfg.Adapter.RetryBaseDelay,
		},
		Cache: ClientCache{
			Enabled: cfg.Cache.Enabled,
			Kind:    cfg.Cache.Kind,
			DSN:     cfg.Cache.DSN,
		},
		Workers:   ClientWorkers{DownloadConcurrency: cfg.Workers.DownloadConcurrency},
		QuickTest: cfg.QuickTest,
	}

	clientCfg.applyDefaults()
	return clientCfg
}

func (cfg *ClientConfig) applyDefaults() {
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = "info"
	}

	if cfg.Storage.Kind == "" {
		switch {
		case cfg.Storage.Blob != "":
			cfg.Storage.Kind = StorageMemory
		case cfg.Storage.DB.DSN != "":
			cfg.Storage.Kind = StorageSQLite
		case cfg.Storage.AWS.SecretID != "":
			cfg.Storage.Kind = StorageAWS
		default:
			cfg.Storage.Kind = StorageFile
		}
	}
	if cfg.Storage.Kind == StorageFile && cfg.Storage.FilePath == "" {
		cfg.Storage.FilePath = DefaultConfigFile
	}
	if cfg.Storage.DB.Name == "" {
		cfg.Storage.DB.Name = DefaultConfigName
	}

	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Adapter.RetryAttempts == 0 {
		cfg.Adapter.RetryAttempts = DefaultRetryAttempts
	}
	if cfg.Adapter.RetryBaseDelay == 0 {
		cfg.Adapter.RetryBaseDelay = DefaultRetryBaseDelay
	}

	if cfg.Cache.Enabled && cfg.Cache.Kind == "" {
		if cfg.Cache.DSN != "" {
			cfg.Cache.Kind = StorageSQLite
		} else {
			cfg.Cache.Kind = StorageMemory
		}
	}

	if cfg.Workers.DownloadConcurrency == 0 {
		cfg.Workers.DownloadConcurrency = DefaultDownloadConcurrency
	}

	if cfg.QuickTest.Field == "" {
		cfg.QuickTest.Field = DefaultQuickTestField
	}
}
