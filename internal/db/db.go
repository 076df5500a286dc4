// Package db provides SQLite access for the capflow transition journal.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the sql handle together with migration support.
type DB struct {
	*sql.DB
}

// Open opens (or creates) the journal database at path.
func Open(path string) (*DB, error) {
	handle, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// modernc sqlite is single-writer; serialize access through one conn.
	handle.SetMaxOpenConns(1)

	if err := handle.Ping(); err != nil {
		handle.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: handle}, nil
}

// OpenInMemory opens a fresh in-memory database, used in tests.
func OpenInMemory() (*DB, error) {
	handle, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	handle.SetMaxOpenConns(1)
	return &DB{DB: handle}, nil
}

// migrations is the ordered schema history. Entries are append-only.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS transitions (
		id            TEXT PRIMARY KEY,
		timestamp     TEXT NOT NULL,
		workflow      TEXT NOT NULL,
		stage         TEXT NOT NULL,
		status        TEXT NOT NULL,
		directive     TEXT NOT NULL,
		token         TEXT,
		metadata_json TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transitions_workflow ON transitions (workflow, timestamp, id)`,
}

// MigrateUp applies any pending migrations and returns how many ran.
func (d *DB) MigrateUp(ctx context.Context) (int, error) {
	if _, err := d.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`); err != nil {
		return 0, fmt.Errorf("failed to create migrations table: %w", err)
	}

	var current int
	row := d.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	if err := row.Scan(&current); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}

	applied := 0
	for version := current; version < len(migrations); version++ {
		if _, err := d.ExecContext(ctx, migrations[version]); err != nil {
			return applied, fmt.Errorf("migration %d failed: %w", version+1, err)
		}
		if _, err := d.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version+1); err != nil {
			return applied, fmt.Errorf("failed to record migration %d: %w", version+1, err)
		}
		applied++
	}

	return applied, nil
}
