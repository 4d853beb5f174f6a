package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-secrets-manager/internal/adapter"
	"github.com/MKhiriev/go-secrets-manager/internal/crypto"
	"github.com/MKhiriev/go-secrets-manager/internal/logger"
	"github.com/MKhiriev/go-secrets-manager/internal/store"
	"github.com/MKhiriev/go-secrets-manager/internal/validators"
	"github.com/MKhiriev/go-secrets-manager/models"
)

// session is the state shared by all services: where the configuration
// lives and how to reach the vault.
type session struct {
	storage       store.ConfigStorage
	adapter       adapter.VaultAdapter
	keychain      crypto.KeyChainService
	validator     validators.Validator
	clientVersion string
	logger        *logger.Logger

	// serialises configuration writes
	mu sync.Mutex
}

func (s *session) load(ctx context.Context) (models.Configuration, error) {
	cfg, err := s.storage.Load(ctx)
	if err != nil {
		return models.Configuration{}, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// loadBound loads a configuration that can sign requests.
func (s *session) loadBound(ctx context.Context) (models.Configuration, error) {
	cfg, err := s.load(ctx)
	if err != nil {
		return models.Configuration{}, err
	}
	if !cfg.IsBound() {
		return models.Configuration{}, fmt.Errorf("%w: fetch secrets once to bind the one-time token", ErrNotBound)
	}
	return cfg, nil
}

func (s *session) save(ctx context.Context, cfg models.Configuration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Save(ctx, cfg); err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}
	return nil
}

// validate checks obj before anything is encrypted for the vault.
func (s *session) validate(ctx context.Context, obj any, fields ...string) error {
	if err := s.validator.Validate(ctx, obj, fields...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return nil
}

// withKeyRotation runs call. When the vault asks for another server key the
// new key id is persisted and call runs once more.
func (s *session) withKeyRotation(ctx context.Context, cfg *models.Configuration, call func(models.Configuration) error) error {
	err := call(*cfg)

	var rotation *adapter.KeyRotationError
	if !errors.As(err, &rotation) {
		return err
	}

	s.logger.Info().
		Str("func", "session.withKeyRotation").
		Str("old_key_id", cfg.ServerPublicKeyID).
		Str("new_key_id", rotation.KeyID).
		Msg("server public key rotated")

	cfg.ServerPublicKeyID = rotation.KeyID
	if err := s.save(ctx, *cfg); err != nil {
		return err
	}
	return call(*cfg)
}
