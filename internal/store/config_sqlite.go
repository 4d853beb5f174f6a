package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-secrets-manager/internal/logger"
	"github.com/MKhiriev/go-secrets-manager/models"
)

// SQLiteStorage keeps configurations in a local sqlite database, one row
// per configuration name.
type SQLiteStorage struct {
	db     *DB
	name   string
	logger *logger.Logger
	now    func() time.Time
}

// NewSQLiteStorage returns a storage for the configuration called name.
func NewSQLiteStorage(db *DB, name string, log *logger.Logger) *SQLiteStorage {
	return &SQLiteStorage{db: db, name: name, logger: log, now: time.Now}
}

// Load implements [ConfigStorage].
func (s *SQLiteStorage) Load(ctx context.Context) (models.Configuration, error) {
	query, args, err := buildSelectConfigurationQuery(s.name)
	if err != nil {
		return models.Configuration{}, fmt.Errorf("%w: %w: %w", ErrStorage, ErrBuildingSQLQuery, err)
	}

	var payload string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Configuration{}, ErrConfigNotFound
	}
	if err != nil {
		s.logger.Err(err).
			Str("func", "SQLiteStorage.Load").
			Str("name", s.name).
			Msg("failed to query configuration")
		return models.Configuration{}, fmt.Errorf("%w: %w: %w", ErrStorage, ErrExecutingQuery, err)
	}

	cfg, err := models.ParseConfigurationJSON([]byte(payload))
	if err != nil {
		s.logger.Err(err).
			Str("func", "SQLiteStorage.Load").
			Str("name", s.name).
			Msg("corrupt configuration row")
		return models.Configuration{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return cfg, nil
}

// Save implements [ConfigStorage].
func (s *SQLiteStorage) Save(ctx context.Context, cfg models.Configuration) error {
	payload, err := cfg.JSON()
	if err != nil {
		return fmt.Errorf("%w: encode configuration: %w", ErrStorage, err)
	}

	query, args, err := buildUpsertConfigurationQuery(s.name, string(payload), s.now().UTC())
	if err != nil {
		return fmt.Errorf("%w: %w: %w", ErrStorage, ErrBuildingSQLQuery, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).
			Str("func", "SQLiteStorage.Save").
			Str("name", s.name).
			Msg("failed to upsert configuration")
		return fmt.Errorf("%w: %w: %w", ErrStorage, ErrExecutingStatement, err)
	}
	return nil
}
