// Package store persists compilation state in SQLite: key/value metadata
// such as the digest of the last compiled feed, and the history of runs.
package store

import (
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"
)

// Metadata keys.
const (
	KeyFeedDigest = "feed_digest"
	KeyLastRun    = "last_run"
)

// Store is the SQLite data access layer for libreveal's run state.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=30000")
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping database")
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the metadata and runs tables. Idempotent.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return errors.Wrap(err, "migrate")
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS metadata (
  key             TEXT PRIMARY KEY,
  value           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
  id              INTEGER PRIMARY KEY,
  started_at      TIMESTAMP NOT NULL,
  finished_at     TIMESTAMP NOT NULL,
  status          TEXT NOT NULL,
  libraries       INTEGER DEFAULT 0,
  expressions     INTEGER DEFAULT 0,
  skipped         INTEGER DEFAULT 0,
  digest          TEXT,
  warnings        TEXT,
  error           TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`

// GetMetadata returns the value stored under key, or "" if none.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "get metadata %q", key)
	}
	return value, nil
}

// SetMetadata stores value under key, replacing any previous value.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return errors.Wrapf(err, "set metadata %q", key)
	}
	return nil
}

// RecordRun inserts a run and returns its ID. The run's ID field is set.
func (s *Store) RecordRun(r *Run) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs (started_at, finished_at, status, libraries, expressions, skipped, digest, warnings, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.StartedAt.UTC(), r.FinishedAt.UTC(), r.Status, r.Libraries, r.Expressions, r.Skipped,
		r.Digest, marshalWarnings(r.Warnings), r.Error,
	)
	if err != nil {
		return 0, errors.Wrap(err, "record run")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "record run: last insert id")
	}
	r.ID = id
	if err := s.SetMetadata(KeyLastRun, r.FinishedAt.UTC().Format(time.RFC3339)); err != nil {
		return id, err
	}
	return id, nil
}

// RecentRuns returns up to limit runs, newest first. A non-positive limit
// returns every run.
func (s *Store) RecentRuns(limit int) ([]*Run, error) {
	query := `SELECT id, started_at, finished_at, status, libraries, expressions, skipped,
	                 COALESCE(digest, ''), COALESCE(warnings, ''), COALESCE(error, '')
	          FROM runs ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r := &Run{}
		var warnings string
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Status, &r.Libraries,
			&r.Expressions, &r.Skipped, &r.Digest, &warnings, &r.Error); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		r.Warnings = unmarshalWarnings(warnings)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
