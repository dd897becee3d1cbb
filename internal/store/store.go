// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

// Package store persists the plugin load audit trail in PostgreSQL.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// poolIface abstracts pgxpool for testing with pgxmock.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Connect opens a PostgreSQL connection pool.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, oops.With("operation", "connect to database").Wrap(err)
	}
	return pool, nil
}

// LoadRecord is one row of the plugin load audit trail: a plugin observed
// by one load pass.
type LoadRecord struct {
	ID          ulid.ULID
	EventID     ulid.ULID
	PluginID    string
	Name        string
	Version     string
	Status      string
	RendererIDs []string
	LoadedAt    time.Time
}

// PluginEventLog appends and queries load records in PostgreSQL.
type PluginEventLog struct {
	pool poolIface
}

// NewPluginEventLog creates a log backed by the given connection pool.
func NewPluginEventLog(pool poolIface) *PluginEventLog {
	return &PluginEventLog{pool: pool}
}

// Append persists one load record.
func (l *PluginEventLog) Append(ctx context.Context, rec LoadRecord) error {
	_, err := l.pool.Exec(ctx,
		`INSERT INTO plugin_load_events (id, event_id, plugin_id, name, version, status, renderer_ids, loaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID.String(),
		rec.EventID.String(),
		rec.PluginID,
		rec.Name,
		rec.Version,
		rec.Status,
		strings.Join(rec.RendererIDs, ";"),
		rec.LoadedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("DUPLICATE_LOAD_RECORD").
				With("record_id", rec.ID.String()).
				Wrap(err)
		}
		return oops.With("operation", "append load record").
			With("plugin", rec.PluginID).
			Wrap(err)
	}
	return nil
}

// Recent returns the newest load records, most recent first.
func (l *PluginEventLog) Recent(ctx context.Context, limit int) ([]LoadRecord, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT id, event_id, plugin_id, name, version, status, renderer_ids, loaded_at
		 FROM plugin_load_events ORDER BY id DESC LIMIT $1`,
		limit)
	if err != nil {
		return nil, oops.With("operation", "query load records").Wrap(err)
	}
	defer rows.Close()

	var records []LoadRecord
	for rows.Next() {
		var rec LoadRecord
		var idStr, eventIDStr, rendererIDs string
		if err := rows.Scan(&idStr, &eventIDStr, &rec.PluginID, &rec.Name,
			&rec.Version, &rec.Status, &rendererIDs, &rec.LoadedAt); err != nil {
			return nil, oops.With("operation", "scan load record").Wrap(err)
		}
		if rec.ID, err = ulid.Parse(idStr); err != nil {
			return nil, oops.With("operation", "parse record id").With("id", idStr).Wrap(err)
		}
		if rec.EventID, err = ulid.Parse(eventIDStr); err != nil {
			return nil, oops.With("operation", "parse event id").With("id", eventIDStr).Wrap(err)
		}
		if rendererIDs != "" {
			rec.RendererIDs = strings.Split(rendererIDs, ";")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate load records").Wrap(err)
	}
	return records, nil
}
