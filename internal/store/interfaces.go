package store

import (
	"context"

	"github.com/MKhiriev/go-secrets-manager/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// ConfigStorage persists the client's [models.Configuration]. Every
// implementation guards itself, so a single value may be shared between
// goroutines.
type ConfigStorage interface {
	// Load returns the stored configuration. It fails with
	// [ErrConfigNotFound] when nothing was stored yet and with
	// [ErrStorage] when the medium is unreadable or its content corrupt.
	Load(ctx context.Context) (models.Configuration, error)

	// Save replaces the stored configuration.
	Save(ctx context.Context, cfg models.Configuration) error
}

// ResponseCache keeps the last successful vault response per key for
// offline fallback. Payloads are opaque to the cache; callers store them
// already encrypted.
type ResponseCache interface {
	// SaveResponse stores payload under key, replacing any previous value.
	SaveResponse(ctx context.Context, key string, payload []byte) error

	// LoadResponse returns the payload stored under key or [ErrCacheMiss].
	LoadResponse(ctx context.Context, key string) ([]byte, error)
}
