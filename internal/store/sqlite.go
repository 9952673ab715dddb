package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// RunRecord is one characterization run as recorded in the history store.
type RunRecord struct {
	ID        string
	Bench     string
	Netlist   string
	Command   string
	StartedAt time.Time
	Duration  time.Duration
	Outcome   string
	DataFile  string
	LogFile   string

	Device   string
	WidthUM  string
	LengthUM string
	BiasUA   string
	Corner   string
}

// RunStore records runs in a SQLite database beside the results tree.
type RunStore struct {
	db   *sql.DB
	path string
}

// Open creates or opens the run-history database at path, creating the
// parent directory if needed.
func Open(path string) (*RunStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &RunStore{db: db, path: path}, nil
}

// Close closes the underlying database.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// Record inserts a run row. An empty ID is derived from the bench name and
// start time.
func (s *RunStore) Record(ctx context.Context, rec RunRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = runID(rec.Bench, rec.StartedAt)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, bench, netlist, command, started_at, duration_ms,
			outcome, data_file, log_file,
			device, w_um, l_um, id_ua, corner
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Bench, rec.Netlist, rec.Command,
		rec.StartedAt.UTC().Format(time.RFC3339Nano), rec.Duration.Milliseconds(),
		rec.Outcome, rec.DataFile, rec.LogFile,
		rec.Device, rec.WidthUM, rec.LengthUM, rec.BiasUA, rec.Corner,
	)
	if err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}

	return rec.ID, nil
}

// Recent returns up to limit runs, newest first.
func (s *RunStore) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, bench, netlist, command, started_at, duration_ms,
		       outcome, data_file, log_file,
		       device, w_um, l_um, id_ua, corner
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var recs []RunRecord
	for rows.Next() {
		var rec RunRecord
		var startedAt string
		var durationMS int64
		if err := rows.Scan(
			&rec.ID, &rec.Bench, &rec.Netlist, &rec.Command, &startedAt, &durationMS,
			&rec.Outcome, &rec.DataFile, &rec.LogFile,
			&rec.Device, &rec.WidthUM, &rec.LengthUM, &rec.BiasUA, &rec.Corner,
		); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}

		rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing run timestamp: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond

		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

// runID derives a stable identifier from the bench name and start time.
func runID(bench string, startedAt time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", bench, startedAt.UnixNano())))
	return hex.EncodeToString(sum[:])[:16]
}
