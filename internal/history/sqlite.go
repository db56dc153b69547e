package history

import (
	"context"
	"database/sql"
	stdErrors "errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Get for unknown ids.
var ErrNotFound = stdErrors.New("history entry not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens the database at dbPath, creating the schema if needed.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS exports (
		id TEXT PRIMARY KEY,
		site TEXT NOT NULL,
		target TEXT NOT NULL,
		platform TEXT NOT NULL DEFAULT '',
		outcome TEXT NOT NULL,
		started INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		pages INTEGER NOT NULL,
		files INTEGER NOT NULL,
		assets INTEGER NOT NULL,
		original_bytes INTEGER NOT NULL,
		optimized_bytes INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		report BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_exports_started ON exports(started);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record implements Store.
func (s *SQLiteStore) Record(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO exports
		(id, site, target, platform, outcome, started, duration_ms, pages, files, assets, original_bytes, optimized_bytes, warnings, error, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Site, e.Target, e.Platform, e.Outcome, e.Started.UnixMilli(), e.Duration.Milliseconds(),
		e.Pages, e.Files, e.Assets, e.OriginalBytes, e.OptimizedBytes, e.Warnings, e.Error, e.Report,
	)
	if err != nil {
		return fmt.Errorf("insert export: %w", err)
	}
	return nil
}

const selectColumns = `SELECT id, site, target, platform, outcome, started, duration_ms, pages, files, assets,
	original_bytes, optimized_bytes, warnings, error, report FROM exports`

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY started DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := scanEntry(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
	if stdErrors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var e Entry
	var started, durationMS int64
	err := row.Scan(&e.ID, &e.Site, &e.Target, &e.Platform, &e.Outcome, &started, &durationMS,
		&e.Pages, &e.Files, &e.Assets, &e.OriginalBytes, &e.OptimizedBytes, &e.Warnings, &e.Error, &e.Report)
	if err != nil {
		if stdErrors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan export: %w", err)
	}
	e.Started = time.UnixMilli(started)
	e.Duration = time.Duration(durationMS) * time.Millisecond
	return &e, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
