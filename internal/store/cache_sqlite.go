package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-secrets-manager/internal/logger"
)

type sqliteResponseCache struct {
	db     *DB
	logger *logger.Logger
	now    func() time.Time
}

// NewSQLiteResponseCache returns a [ResponseCache] persisted in the
// response_cache table.
func NewSQLiteResponseCache(db *DB, log *logger.Logger) ResponseCache {
	return &sqliteResponseCache{db: db, logger: log, now: time.Now}
}

func (c *sqliteResponseCache) SaveResponse(ctx context.Context, key string, payload []byte) error {
	query, args, err := buildUpsertCachedResponseQuery(key, payload, c.now().UTC())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		c.logger.Err(err).Str("func", "sqliteResponseCache.SaveResponse").Msg("failed to store response")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (c *sqliteResponseCache) LoadResponse(ctx context.Context, key string) ([]byte, error) {
	query, args, err := buildSelectCachedResponseQuery(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var payload []byte
	err = c.db.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		c.logger.Err(err).Str("func", "sqliteResponseCache.LoadResponse").Msg("failed to load response")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return payload, nil
}
