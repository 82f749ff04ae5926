// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const sessionsTable = "auth_sessions"

// sqlite uses ? placeholders
var sqlBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func buildUpsertSessionQuery(key, value string, now time.Time) (string, []any, error) {
	return sqlBuilder.
		Insert(sessionsTable).
		Columns("storage_key", "value", "updated_at").
		Values(key, value, now.UTC()).
		Suffix("ON CONFLICT (storage_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
}

func buildSelectSessionQuery(key string) (string, []any, error) {
	return sqlBuilder.
		Select("value").
		From(sessionsTable).
		Where(sq.Eq{"storage_key": key}).
		Limit(1).
		ToSql()
}

func buildDeleteSessionQuery(key string) (string, []any, error) {
	return sqlBuilder.
		Delete(sessionsTable).
		Where(sq.Eq{"storage_key": key}).
		ToSql()
}
