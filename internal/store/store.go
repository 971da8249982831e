// Package store implements the agent's durable local ledger: events,
// AFK spans, and the goal-notification idempotence ledger, backed by a
// single SQLite file accessed through database/sql. Row ids are UUID v7
// strings assigned by the caller before insert, so a retried insert
// after a crash or a flush failure is naturally idempotent
// (INSERT OR IGNORE) rather than needing a separate dedup pass
// (spec.md §4.6's "stable row id" contract).
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id             TEXT PRIMARY KEY,
	timestamp      TEXT NOT NULL,
	end_timestamp  TEXT,
	duration       INTEGER,
	category       TEXT,
	app_name       TEXT NOT NULL,
	entity_name    TEXT,
	entity_type    TEXT,
	project_name   TEXT,
	project_path   TEXT,
	branch_name    TEXT,
	language_name  TEXT,
	source_name    TEXT NOT NULL DEFAULT 'desktop',
	synced         INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_events_synced ON events(synced);
CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);

CREATE TABLE IF NOT EXISTS afk_events (
	id        TEXT PRIMARY KEY,
	afk_start TEXT NOT NULL,
	afk_end   TEXT,
	duration  INTEGER,
	synced    INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_afk_events_synced ON afk_events(synced);
CREATE INDEX IF NOT EXISTS idx_afk_events_start ON afk_events(afk_start);

CREATE TABLE IF NOT EXISTS shown_goal_notifications (
	goal_id    INTEGER NOT NULL,
	time_span  TEXT NOT NULL,
	period_key TEXT NOT NULL,
	shown_at   TEXT NOT NULL,
	PRIMARY KEY (goal_id, time_span, period_key)
);
`

// Store wraps the SQLite connection. Use ":memory:" as path in tests.
type Store struct {
	db *sql.DB
}

// Open creates (or opens) the database at path and ensures the schema
// exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite serializes writers; one conn avoids SQLITE_BUSY

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}
