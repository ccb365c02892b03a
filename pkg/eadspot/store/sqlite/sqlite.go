package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/archivetools/eadspot/pkg/eadspot/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens the occurrence catalog with WAL mode enabled, creating
// the schema if needed.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS occurrences (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	section TEXT,
	surface_form TEXT NOT NULL,
	uri TEXT NOT NULL,
	kind TEXT,
	similarity REAL,
	support INTEGER,
	recognized_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_occurrences_run ON occurrences(run_id);
CREATE INDEX IF NOT EXISTS idx_occurrences_uri ON occurrences(uri);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveOccurrence records one recognized occurrence.
func (s *sqliteStore) SaveOccurrence(ctx context.Context, o store.Occurrence) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO occurrences
			(id, run_id, section, surface_form, uri, kind, similarity, support, recognized_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.RunID, o.Section, o.SurfaceForm, o.URI, o.Kind,
		o.Similarity, o.Support, o.RecognizedAt.UTC().Format(time.RFC3339Nano))
	return err
}

// ListByRun returns one run's occurrences in insertion (id) order.
func (s *sqliteStore) ListByRun(ctx context.Context, runID string) ([]store.Occurrence, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, section, surface_form, uri, kind, similarity, support, recognized_at
		FROM occurrences WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Occurrence
	for rows.Next() {
		var o store.Occurrence
		var ts string
		if err := rows.Scan(&o.ID, &o.RunID, &o.Section, &o.SurfaceForm, &o.URI,
			&o.Kind, &o.Similarity, &o.Support, &ts); err != nil {
			return nil, err
		}
		o.RecognizedAt, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, o)
	}
	return out, rows.Err()
}
