package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Outcome classifies one download attempt.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
)

// Entry is one recorded download attempt.
type Entry struct {
	ID        int64
	Key       string
	URL       string
	LocalPath string
	Outcome   Outcome
	SizeBytes int64
	Detail    string
	CreatedAt time.Time
}

// Store manages the download ledger backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS download_log (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    file_key    TEXT NOT NULL,
    url         TEXT NOT NULL,
    local_path  TEXT,
    outcome     TEXT NOT NULL,
    size_bytes  INTEGER NOT NULL DEFAULT 0,
    detail      TEXT,
    created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_download_log_key ON download_log(file_key);
CREATE INDEX IF NOT EXISTS idx_download_log_outcome ON download_log(outcome);
`

// Open initializes or connects to the ledger database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends one attempt to the ledger.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO download_log (file_key, url, local_path, outcome, size_bytes, detail, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.Key,
		entry.URL,
		nullableString(entry.LocalPath),
		string(entry.Outcome),
		entry.SizeBytes,
		nullableString(entry.Detail),
		timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first, up to limit.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, file_key, url, local_path, outcome, size_bytes, detail, created_at
         FROM download_log ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ListByKey returns all entries for one file key, newest first.
func (s *Store) ListByKey(ctx context.Context, key string) ([]Entry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, file_key, url, local_path, outcome, size_bytes, detail, created_at
         FROM download_log WHERE file_key = ? ORDER BY id DESC`,
		key,
	)
	if err != nil {
		return nil, fmt.Errorf("list journal entries by key: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Stats returns a count of entries grouped by outcome.
func (s *Store) Stats(ctx context.Context) (map[Outcome]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(1) FROM download_log GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("journal stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Outcome]int)
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, err
		}
		stats[Outcome(outcome)] = count
	}
	return stats, rows.Err()
}

// Prune deletes entries older than the cutoff and returns how many went.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM download_log WHERE created_at < ?`,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("prune journal: %w", err)
	}
	return res.RowsAffected()
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry      Entry
		localPath  sql.NullString
		outcome    string
		detail     sql.NullString
		createdRaw string
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.Key,
		&entry.URL,
		&localPath,
		&outcome,
		&entry.SizeBytes,
		&detail,
		&createdRaw,
	); err != nil {
		return Entry{}, err
	}
	entry.LocalPath = localPath.String
	entry.Outcome = Outcome(outcome)
	entry.Detail = detail.String
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		entry.CreatedAt = created
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
