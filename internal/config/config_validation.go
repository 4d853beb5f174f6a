// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
)

// validate checks the merged [StructuredConfig] before client mapping.
// Only source-independent rules live here; the client view carries the rest.
func (cfg *StructuredConfig) validate() error {
	if cfg.Workers.DownloadConcurrency < 0 {
		return fmt.Errorf("%w: negative download concurrency", ErrInvalidWorkerConfigs)
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	switch cfg.Storage.Kind {
	case StorageMemory:
		if cfg.Storage.Blob == "" && cfg.App.Token == "" {
			return fmt.Errorf("%w: memory storage needs a config blob or a token", ErrInvalidStorageConfigs)
		}
	case StorageFile:
		if strings.TrimSpace(cfg.Storage.FilePath) == "" {
			return fmt.Errorf("%w: empty file path", ErrInvalidStorageConfigs)
		}
	case StorageSQLite:
		if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
			return fmt.Errorf("%w: sqlite storage needs a file dsn", ErrInvalidStorageConfigs)
		}
	case StorageAWS:
		if cfg.Storage.AWS.SecretID == "" {
			return fmt.Errorf("%w: aws storage needs a secret id", ErrInvalidStorageConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown storage kind %q", ErrInvalidStorageConfigs, cfg.Storage.Kind)
	}

	if cfg.Adapter.RequestTimeout < 0 {
		return fmt.Errorf("%w: negative request timeout", ErrInvalidAdapterConfigs)
	}
	if cfg.Adapter.RetryBaseDelay < 0 {
		return fmt.Errorf("%w: negative retry delay", ErrInvalidAdapterConfigs)
	}

	if cfg.Cache.Enabled {
		switch cfg.Cache.Kind {
		case StorageMemory:
		case StorageSQLite:
			if cfg.Cache.DSN == "" {
				return fmt.Errorf("%w: sqlite cache needs a dsn", ErrInvalidCacheConfigs)
			}
		default:
			return fmt.Errorf("%w: unknown cache kind %q", ErrInvalidCacheConfigs, cfg.Cache.Kind)
		}
	}

	if cfg.Workers.DownloadConcurrency < 1 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.App.Token != "" && !strings.Contains(cfg.App.Token, ":") && cfg.App.Hostname == "" {
		return fmt.Errorf("%w: token without region needs an explicit hostname", ErrInvalidAppConfigs)
	}

	return nil
}
