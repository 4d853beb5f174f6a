// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/MKhiriev/go-secrets-manager/models"
)

// MemoryStorage keeps the configuration in process memory. It is seeded
// from a base64 configuration blob and can export the current state as a
// blob again, e.g. after a token binding updated it.
type MemoryStorage struct {
	mu  sync.RWMutex
	cfg *models.Configuration
}

// NewMemoryStorage decodes blob into a new storage. An empty blob yields an
// empty storage whose Load fails with [ErrConfigNotFound].
func NewMemoryStorage(blob string) (*MemoryStorage, error) {
	s := &MemoryStorage{}
	if strings.TrimSpace(blob) == "" {
		return s, nil
	}

	cfg, err := models.ParseConfigurationBlob(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	s.cfg = &cfg
	return s, nil
}

// Load implements [ConfigStorage].
func (s *MemoryStorage) Load(_ context.Context) (models.Configuration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cfg == nil {
		return models.Configuration{}, ErrConfigNotFound
	}
	return s.cfg.Clone(), nil
}

// Save implements [ConfigStorage].
func (s *MemoryStorage) Save(_ context.Context, cfg models.Configuration) error {
	c := cfg.Clone()

	s.mu.Lock()
	s.cfg = &c
	s.mu.Unlock()
	return nil
}

// Blob returns the current configuration as a base64 blob.
func (s *MemoryStorage) Blob() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cfg == nil {
		return "", ErrConfigNotFound
	}
	return s.cfg.Blob()
}
