// Package history keeps a local log of PDF fetch attempts in SQLite so
// repeated failures can be inspected after the fact with 'bibman log'.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS fetch_log (
  id        INTEGER PRIMARY KEY AUTOINCREMENT,
  key       TEXT NOT NULL,
  strategy  TEXT NOT NULL,
  url       TEXT NOT NULL,
  ok        INTEGER NOT NULL,
  reason    TEXT NOT NULL,
  at        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fetch_log_key ON fetch_log(key)`

// Attempt is one logged fetch attempt.
type Attempt struct {
	Key      string    `json:"key"`
	Strategy string    `json:"strategy"`
	URL      string    `json:"url,omitempty"`
	OK       bool      `json:"ok"`
	Reason   string    `json:"reason,omitempty"`
	At       time.Time `json:"at"`
}

// Log is a fetch-attempt log backed by a SQLite database.
type Log struct {
	db *sql.DB
}

// DefaultPath returns the log location under XDG_DATA_HOME, defaulting to
// ~/.local/share/bibman/history.db.
func DefaultPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "bibman", "history.db")
}

// Open opens (and if necessary creates) the log at path.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	return &Log{db: db}, nil
}

// Close releases the underlying database.
func (l *Log) Close() error {
	return l.db.Close()
}

// Record appends one fetch attempt.
func (l *Log) Record(ctx context.Context, key, strategy, url string, ok bool, reason string) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO fetch_log (key, strategy, url, ok, reason, at) VALUES (?, ?, ?, ?, ?, ?)`,
		key, strategy, url, ok, reason, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording fetch attempt: %w", err)
	}
	return nil
}

// ListByKey returns every attempt for one citation key, newest first.
func (l *Log) ListByKey(ctx context.Context, key string) ([]Attempt, error) {
	return l.query(ctx,
		`SELECT key, strategy, url, ok, reason, at FROM fetch_log WHERE key = ? ORDER BY id DESC`, key)
}

// ListRecent returns the newest n attempts across all keys.
func (l *Log) ListRecent(ctx context.Context, n int) ([]Attempt, error) {
	return l.query(ctx,
		`SELECT key, strategy, url, ok, reason, at FROM fetch_log ORDER BY id DESC LIMIT ?`, n)
}

func (l *Log) query(ctx context.Context, stmt string, args ...any) ([]Attempt, error) {
	rows, err := l.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("querying fetch log: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		var ok int
		var at string
		if err := rows.Scan(&a.Key, &a.Strategy, &a.URL, &ok, &a.Reason, &at); err != nil {
			return nil, fmt.Errorf("scanning fetch log row: %w", err)
		}
		a.OK = ok != 0
		if t, err := time.Parse(time.RFC3339, at); err == nil {
			a.At = t
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
