// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	configurationsTable = "configurations"
	responseCacheTable  = "response_cache"
)

var sqlite = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// buildSelectConfigurationQuery selects the payload of the named
// configuration.
func buildSelectConfigurationQuery(name string) (string, []any, error) {
	return sqlite.
		Select("payload").
		From(configurationsTable).
		Where(sq.Eq{"name": name}).
		ToSql()
}

// buildUpsertConfigurationQuery inserts the named configuration or replaces
// the payload of an existing one.
func buildUpsertConfigurationQuery(name string, payload string, now time.Time) (string, []any, error) {
	return sqlite.
		Insert(configurationsTable).
		Columns("name", "payload", "updated_at").
		Values(name, payload, now).
		Suffix("ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at").
		ToSql()
}

// buildSelectCachedResponseQuery selects the payload cached under key.
func buildSelectCachedResponseQuery(key string) (string, []any, error) {
	return sqlite.
		Select("payload").
		From(responseCacheTable).
		Where(sq.Eq{"cache_key": key}).
		ToSql()
}

// buildUpsertCachedResponseQuery stores payload under key.
func buildUpsertCachedResponseQuery(key string, payload []byte, now time.Time) (string, []any, error) {
	return sqlite.
		Insert(responseCacheTable).
		Columns("cache_key", "payload", "updated_at").
		Values(key, payload, now).
		Suffix("ON CONFLICT(cache_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at").
		ToSql()
}
