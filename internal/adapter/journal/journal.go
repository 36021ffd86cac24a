// Package journal records batch and watch processing runs in a local
// SQLite database so repeated invocations can be audited and skipped.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Entry is one processing run of a single chat export archive.
type Entry struct {
	RunID     string
	Archive   string
	Status    string
	Output    string
	Error     string
	Duration  time.Duration
	CreatedAt time.Time
}

const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Journal persists run entries.
type Journal struct {
	db *sql.DB
}

// Open creates or opens the journal database at path.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		archive TEXT NOT NULL,
		status TEXT NOT NULL,
		output TEXT,
		error TEXT,
		duration_ms INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_archive ON runs(archive);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing journal schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Record inserts a run entry, assigning RunID and CreatedAt when unset.
func (j *Journal) Record(e Entry) (Entry, error) {
	if e.RunID == "" {
		e.RunID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := j.db.Exec(
		`INSERT INTO runs (run_id, archive, status, output, error, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Archive, e.Status, e.Output, e.Error, e.Duration.Milliseconds(), e.CreatedAt,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("recording run: %w", err)
	}
	return e, nil
}

// List returns the most recent entries, newest first.
func (j *Journal) List(limit int) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT run_id, archive, status, output, error, duration_ms, created_at
		 FROM runs ORDER BY created_at DESC, run_id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ms int64
		if err := rows.Scan(&e.RunID, &e.Archive, &e.Status, &e.Output, &e.Error, &ms, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		e.Duration = time.Duration(ms) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LastSuccess reports whether archive has a previous successful run.
func (j *Journal) LastSuccess(archive string) (bool, error) {
	var n int
	err := j.db.QueryRow(
		`SELECT COUNT(*) FROM runs WHERE archive = ? AND status = ?`,
		archive, StatusOK,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("querying runs: %w", err)
	}
	return n > 0, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}
