package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/MKhiriev/go-secrets-manager/internal/logger"
	"github.com/MKhiriev/go-secrets-manager/models"
)

// FileStorage keeps the configuration as an indented JSON file readable by
// the owner only. Writes go to a temporary file in the same directory which
// is then renamed over the target.
type FileStorage struct {
	path   string
	logger *logger.Logger

	mu sync.Mutex
}

// NewFileStorage returns a storage backed by the JSON file at path. The file
// does not need to exist yet.
func NewFileStorage(path string, log *logger.Logger) *FileStorage {
	return &FileStorage{path: path, logger: log}
}

// Path returns the configuration file path.
func (s *FileStorage) Path() string {
	return s.path
}

// Load implements [ConfigStorage].
func (s *FileStorage) Load(_ context.Context) (models.Configuration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.Configuration{}, ErrConfigNotFound
		}
		s.logger.Err(err).Str("func", "FileStorage.Load").Str("path", s.path).Msg("error reading configuration file")
		return models.Configuration{}, fmt.Errorf("%w: read %s: %w", ErrStorage, s.path, err)
	}

	cfg, err := models.ParseConfigurationJSON(data)
	if err != nil {
		s.logger.Err(err).Str("func", "FileStorage.Load").Str("path", s.path).Msg("corrupt configuration file")
		return models.Configuration{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return cfg, nil
}

// Save implements [ConfigStorage].
func (s *FileStorage) Save(_ context.Context, cfg models.Configuration) error {
	payload, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode configuration: %w", ErrStorage, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("%w: create config dir: %w", ErrStorage, err)
	}

	tmp, err := os.CreateTemp(dir, ".ksm-config-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", ErrStorage, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: chmod temp file: %w", ErrStorage, err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write temp file: %w", ErrStorage, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync temp file: %w", ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp file: %w", ErrStorage, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		s.logger.Err(err).Str("func", "FileStorage.Save").Str("path", s.path).Msg("error replacing configuration file")
		return fmt.Errorf("%w: replace %s: %w", ErrStorage, s.path, err)
	}

	s.logger.Debug().Str("func", "FileStorage.Save").Str("path", s.path).Msg("configuration saved")
	return nil
}
