// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_buildSelectConfigurationQuery(t *testing.T) {
	query, args, err := buildSelectConfigurationQuery("default")
	require.NoError(t, err)

	assert.Equal(t, "SELECT payload FROM configurations WHERE name = ?", query)
	assert.Equal(t, []any{"default"}, args)
}

func Test_buildUpsertConfigurationQuery(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	query, args, err := buildUpsertConfigurationQuery("default", `{"hostname":"h"}`, now)
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "insert into configurations (name,payload,updated_at) values (?,?,?)")
	require.Contains(t, q, "on conflict(name) do update")
	assert.Equal(t, []any{"default", `{"hostname":"h"}`, now}, args)
}

func Test_buildSelectCachedResponseQuery(t *testing.T) {
	query, args, err := buildSelectCachedResponseQuery("get_secret:abc")
	require.NoError(t, err)

	assert.Equal(t, "SELECT payload FROM response_cache WHERE cache_key = ?", query)
	assert.Equal(t, []any{"get_secret:abc"}, args)
}

func Test_buildUpsertCachedResponseQuery(t *testing.T) {
	now := time.Now()

	query, args, err := buildUpsertCachedResponseQuery("k", []byte{1, 2}, now)
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "insert into response_cache (cache_key,payload,updated_at) values (?,?,?)")
	require.Contains(t, q, "on conflict(cache_key) do update")
	require.Len(t, args, 3)
	assert.Equal(t, []byte{1, 2}, args[1])
}
