package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-secrets-manager/internal/config"
	"github.com/MKhiriev/go-secrets-manager/internal/logger"
)

// ClientStorages groups the storage backends selected by configuration.
// Close releases the database handles it opened.
type ClientStorages struct {
	// Config persists the client identity.
	Config ConfigStorage

	// Cache is the optional response cache; nil when disabled.
	Cache ResponseCache

	closers []func() error
}

// NewClientStorages builds the configuration store and the optional
// response cache described by cfg.
func NewClientStorages(ctx context.Context, cfg config.ClientConfig, log *logger.Logger) (*ClientStorages, error) {
	log.Debug().Str("storage", cfg.Storage.Kind).Bool("cache", cfg.Cache.Enabled).Msg("creating storages")

	s := &ClientStorages{}

	switch cfg.Storage.Kind {
	case config.StorageMemory:
		mem, err := NewMemoryStorage(cfg.Storage.Blob)
		if err != nil {
			return nil, err
		}
		s.Config = mem
	case config.StorageFile:
		s.Config = NewFileStorage(cfg.Storage.FilePath, log)
	case config.StorageSQLite:
		db, err := NewConnectSQLite(ctx, cfg.Storage.DB.DSN, log)
		if err != nil {
			return nil, fmt.Errorf("sqlite storage: %w", err)
		}
		s.closers = append(s.closers, db.Close)
		s.Config = NewSQLiteStorage(db, cfg.Storage.DB.Name, log)
	case config.StorageAWS:
		client, err := NewAWSSecretsManagerClient(ctx, cfg.Storage.AWS.Region, cfg.Storage.AWS.Profile)
		if err != nil {
			return nil, err
		}
		s.Config = NewAWSSecretsManagerStorage(client, cfg.Storage.AWS.SecretID, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorageKind, cfg.Storage.Kind)
	}

	if !cfg.Cache.Enabled {
		return s, nil
	}

	switch cfg.Cache.Kind {
	case config.StorageMemory:
		s.Cache = NewMemoryResponseCache()
	case config.StorageSQLite:
		db, err := NewConnectSQLite(ctx, cfg.Cache.DSN, log)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("sqlite cache: %w", err)
		}
		s.closers = append(s.closers, db.Close)
		s.Cache = NewSQLiteResponseCache(db, log)
	default:
		s.Close()
		return nil, fmt.Errorf("%w: cache %q", ErrUnknownStorageKind, cfg.Cache.Kind)
	}

	return s, nil
}

// Close releases resources held by the storages.
func (s *ClientStorages) Close() error {
	var firstErr error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	return firstErr
}
