// Package store persists the characterization run history in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

// schemaV1 is the initial schema for the run-history store.
const schemaV1 = `
-- One row per characterization run (denormalized for single-query listing)
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    bench TEXT NOT NULL,
    netlist TEXT NOT NULL,
    command TEXT NOT NULL,

    started_at TEXT NOT NULL,
    duration_ms INTEGER NOT NULL,

    -- 'written', 'skipped-no-data', 'simulator-failed'
    outcome TEXT NOT NULL,
    data_file TEXT,
    log_file TEXT,

    -- Provenance metadata extracted from the netlist
    device TEXT,
    w_um TEXT,
    l_um TEXT,
    id_ua TEXT,
    corner TEXT
);
CREATE INDEX IF NOT EXISTS idx_runs_bench ON runs(bench, started_at);

-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// InitSchema creates the tables if they do not exist and records the
// schema version.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	if _, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, SchemaVersion); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}

	return nil
}
