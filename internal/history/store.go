// Package history journals attempted flag mutations in SQLite.
//
// The journal is append-only and answers two questions: what did the tool
// change on this show, and when. It records dry runs and failures too, so
// a surprising file state can be traced back to the operation that caused
// (or did not cause) it.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"trackman/internal/logging"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped on any schema change; an existing database with
// a different version is rejected rather than migrated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by a different
// release and must be deleted before use.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Outcome values for journal entries.
const (
	OutcomeApplied = "applied"
	OutcomeFailed  = "failed"
	OutcomeDryRun  = "dry-run"
)

// Entry is one attempted mutation. Entries from the same batch share an
// OperationID.
type Entry struct {
	ID          int64
	OperationID string
	Show        string
	FilePath    string
	TrackID     int64
	Flag        string
	Value       bool
	Outcome     string
	Detail      string
	CreatedAt   time.Time
}

// Store is the journal database handle.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open initializes or connects to the journal database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:     db,
		path:   path,
		logger: logging.NewComponentLogger(logger, "history"),
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// RecordBatch appends a set of entries in one transaction. Entries without
// a timestamp are stamped with the current time.
func (s *Store) RecordBatch(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin journal tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insert = `INSERT INTO mutations
		(operation_id, show, file_path, track_id, flag, value, outcome, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	for _, entry := range entries {
		createdAt := entry.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		value := 0
		if entry.Value {
			value = 1
		}
		if _, err := tx.ExecContext(ctx, insert,
			entry.OperationID, entry.Show, entry.FilePath, entry.TrackID,
			entry.Flag, value, entry.Outcome, entry.Detail,
			createdAt.Format(time.RFC3339)); err != nil {
			return fmt.Errorf("insert journal entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit journal entries: %w", err)
	}

	s.logger.Debug("journal entries recorded", logging.Int("count", len(entries)))
	return nil
}

// Record appends a single entry.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	return s.RecordBatch(ctx, []Entry{entry})
}

// Recent returns the newest entries across all shows, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return s.query(ctx, `SELECT id, operation_id, show, file_path, track_id, flag, value, outcome, detail, created_at
		FROM mutations ORDER BY id DESC LIMIT ?`, limit)
}

// ForShow returns the newest entries for one show, newest first.
func (s *Store) ForShow(ctx context.Context, show string, limit int) ([]Entry, error) {
	return s.query(ctx, `SELECT id, operation_id, show, file_path, track_id, flag, value, outcome, detail, created_at
		FROM mutations WHERE show = ? ORDER BY id DESC LIMIT ?`, show, limit)
}

func (s *Store) query(ctx context.Context, stmt string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var value int
		var createdAt string
		if err := rows.Scan(&entry.ID, &entry.OperationID, &entry.Show, &entry.FilePath,
			&entry.TrackID, &entry.Flag, &value, &entry.Outcome, &entry.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entry.Value = value != 0
		if parsed, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
			entry.CreatedAt = parsed
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal entries: %w", err)
	}
	return entries, nil
}
