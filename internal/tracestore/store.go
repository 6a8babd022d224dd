// Package tracestore persists recorded gesture traces for offline replay
// and tuning.
//
// The gesture engine itself keeps no history; recording happens only in
// the swipectl developer tool, which imports captured touch streams here
// and replays them through the detector.
package tracestore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"swipekit/pkg/swipe"
)

// Schema for the trace store.
const schema = `
CREATE TABLE IF NOT EXISTS traces (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL,
    layout      TEXT NOT NULL DEFAULT '',
    density     REAL NOT NULL DEFAULT 1.0,
    created_ns  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS samples (
    trace_id    INTEGER NOT NULL REFERENCES traces(id),
    ordinal     INTEGER NOT NULL,
    phase       INTEGER NOT NULL,
    x           REAL NOT NULL,
    y           REAL NOT NULL,
    t_ms        INTEGER NOT NULL,
    PRIMARY KEY (trace_id, ordinal)
);

CREATE INDEX IF NOT EXISTS idx_samples_trace ON samples(trace_id, ordinal);
`

// Sample is one recorded touch event, with time as milliseconds from the
// start of the trace.
type Sample struct {
	Phase  swipe.TouchPhase
	X, Y   float64
	TimeMs int64
}

// TraceInfo describes a stored trace.
type TraceInfo struct {
	ID      int64
	Name    string
	Layout  string
	Density float64
	Created time.Time
	Samples int
}

// Store is the SQLite trace store.
type Store struct {
	db *sql.DB
}

// Open opens or creates the trace database at the given path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateTrace inserts a new trace header and returns its ID.
func (s *Store) CreateTrace(name, layout string, density float64) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO traces (name, layout, density, created_ns) VALUES (?, ?, ?, ?)`,
		name, layout, density, time.Now().UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert trace: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}
	return id, nil
}

// AppendSamples stores the samples for a trace in one transaction.
func (s *Store) AppendSamples(traceID int64, samples []Sample) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO samples (trace_id, ordinal, phase, x, y, t_ms) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	var base int
	if err := tx.QueryRow(
		`SELECT COUNT(*) FROM samples WHERE trace_id = ?`, traceID).Scan(&base); err != nil {
		return fmt.Errorf("count samples: %w", err)
	}

	for i, sm := range samples {
		if _, err := stmt.Exec(traceID, base+i, int(sm.Phase), sm.X, sm.Y, sm.TimeMs); err != nil {
			return fmt.Errorf("insert sample %d: %w", base+i, err)
		}
	}
	return tx.Commit()
}

// LoadSamples returns a trace's samples in recording order.
func (s *Store) LoadSamples(traceID int64) ([]Sample, error) {
	rows, err := s.db.Query(
		`SELECT phase, x, y, t_ms FROM samples WHERE trace_id = ? ORDER BY ordinal`, traceID)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var sm Sample
		var phase int
		if err := rows.Scan(&phase, &sm.X, &sm.Y, &sm.TimeMs); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		sm.Phase = swipe.TouchPhase(phase)
		samples = append(samples, sm)
	}
	return samples, rows.Err()
}

// ListTraces returns all stored traces, newest first.
func (s *Store) ListTraces() ([]TraceInfo, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.layout, t.density, t.created_ns, COUNT(s.trace_id)
		FROM traces t
		LEFT JOIN samples s ON s.trace_id = t.id
		GROUP BY t.id
		ORDER BY t.created_ns DESC, t.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query traces: %w", err)
	}
	defer rows.Close()

	var traces []TraceInfo
	for rows.Next() {
		var ti TraceInfo
		var createdNs int64
		if err := rows.Scan(&ti.ID, &ti.Name, &ti.Layout, &ti.Density, &createdNs, &ti.Samples); err != nil {
			return nil, fmt.Errorf("scan trace: %w", err)
		}
		ti.Created = time.Unix(0, createdNs)
		traces = append(traces, ti)
	}
	return traces, rows.Err()
}

// DeleteTrace removes a trace and its samples.
func (s *Store) DeleteTrace(traceID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM samples WHERE trace_id = ?`, traceID); err != nil {
		return fmt.Errorf("delete samples: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM traces WHERE id = ?`, traceID); err != nil {
		return fmt.Errorf("delete trace: %w", err)
	}
	return tx.Commit()
}
