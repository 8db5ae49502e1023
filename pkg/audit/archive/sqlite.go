package archive

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"aegisworld/warden/pkg/audit"
)

// schema contains the SQL statements to create the archive schema.
const schema = `
CREATE TABLE IF NOT EXISTS audit_entries (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp  TEXT NOT NULL,
    action     TEXT NOT NULL,
    change_id  TEXT NOT NULL,
    summary    TEXT,
    outcome    TEXT
);

CREATE INDEX IF NOT EXISTS idx_audit_entries_action ON audit_entries(action);
CREATE INDEX IF NOT EXISTS idx_audit_entries_timestamp ON audit_entries(timestamp);
`

// Config configures the SQLite archive.
type Config struct {
	// Path is the database file path.
	// Default: data/audit_archive.db
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultConfig returns the default archive configuration.
func DefaultConfig() *Config {
	return &Config{
		Path:        "data/audit_archive.db",
		BusyTimeout: 5 * time.Second,
	}
}

// Storage is the SQLite-backed audit archive.
type Storage struct {
	db     *sql.DB
	config *Config
	logger *slog.Logger
}

// New opens (or creates) the archive database and initializes its schema.
func New(config *Config) (*Storage, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BusyTimeout == 0 {
		config.BusyTimeout = DefaultConfig().BusyTimeout
	}

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, NewArchiveError("open", err)
	}

	s := &Storage{
		db:     db,
		config: config,
		logger: slog.Default().With("component", "audit.archive"),
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("audit archive opened", "path", config.Path)
	return s, nil
}

// initialize enables WAL mode, applies the busy timeout, and creates the
// schema.
func (s *Storage) initialize() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return NewArchiveError("pragma", err)
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", s.config.BusyTimeout.Milliseconds())); err != nil {
		return NewArchiveError("pragma", err)
	}
	if _, err := s.db.Exec(schema); err != nil {
		return NewArchiveError("schema", err)
	}
	return nil
}

// Store appends one mirrored entry to the archive.
func (s *Storage) Store(ctx context.Context, entry audit.Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_entries (timestamp, action, change_id, summary, outcome)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.Timestamp, entry.Action, entry.ChangeID, entry.Summary, entry.Outcome,
	)
	if err != nil {
		return NewArchiveError("store", err)
	}
	return nil
}

// ReplaceAll rebuilds the archive from a full scan of the audit log. The
// whole swap runs in one transaction so readers never observe a partially
// rebuilt archive.
func (s *Storage) ReplaceAll(ctx context.Context, entries []audit.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return NewArchiveError("rebuild", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM audit_entries"); err != nil {
		return NewArchiveError("rebuild", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO audit_entries (timestamp, action, change_id, summary, outcome)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return NewArchiveError("rebuild", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		if _, err := stmt.ExecContext(ctx,
			entry.Timestamp, entry.Action, entry.ChangeID, entry.Summary, entry.Outcome,
		); err != nil {
			return NewArchiveError("rebuild", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return NewArchiveError("rebuild", err)
	}

	s.logger.Info("audit archive rebuilt", "entry_count", len(entries))
	return nil
}

// Recent returns the last limit entries in insertion order.
func (s *Storage) Recent(ctx context.Context, limit int) ([]audit.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp, action, change_id, summary, outcome
		 FROM (
		     SELECT id, timestamp, action, change_id, summary, outcome
		     FROM audit_entries ORDER BY id DESC LIMIT ?
		 ) ORDER BY id ASC`,
		limit,
	)
	if err != nil {
		return nil, NewArchiveError("query", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var entry audit.Entry
		if err := rows.Scan(&entry.Timestamp, &entry.Action, &entry.ChangeID, &entry.Summary, &entry.Outcome); err != nil {
			return nil, NewArchiveError("scan", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, NewArchiveError("query", err)
	}
	return entries, nil
}

// CountByAction returns per-action entry counts.
func (s *Storage) CountByAction(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT action, COUNT(*) FROM audit_entries GROUP BY action")
	if err != nil {
		return nil, NewArchiveError("query", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var action string
		var count int
		if err := rows.Scan(&action, &count); err != nil {
			return nil, NewArchiveError("scan", err)
		}
		counts[action] = count
	}
	if err := rows.Err(); err != nil {
		return nil, NewArchiveError("query", err)
	}
	return counts, nil
}

// DeleteOlderThan removes entries whose timestamp precedes cutoff and
// returns how many rows were deleted. Timestamps are ISO-8601 UTC, so
// lexicographic comparison matches chronological order.
func (s *Storage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM audit_entries WHERE timestamp < ?",
		cutoff.UTC().Format("2006-01-02T15:04:05Z"),
	)
	if err != nil {
		return 0, NewArchiveError("delete", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, NewArchiveError("delete", err)
	}
	return deleted, nil
}

// Close closes the underlying database.
func (s *Storage) Close() error {
	return s.db.Close()
}
