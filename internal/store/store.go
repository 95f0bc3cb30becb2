// Package store is the durable record of projects, sessions, usage, and
// in-flight operations. It wraps a single-file SQLite database reached
// through two pools: a single-connection writer and a pooled read-only
// connection for concurrent reads.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Store is the typed-operations facade over the embedded database. All
// fields are safe for concurrent use; writes serialize through the single
// writer connection, reads fan out across the reader pool.
type Store struct {
	writer *sqlx.DB
	reader *sqlx.DB
	path   string
}

// Open creates the data directory if needed, opens the writer and reader
// pools against path, and applies pending migrations. path should live
// under the process data directory alongside the worktrees tree and the
// instance lock file.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store: path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: create data directory: %w", err)
	}

	writerConn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open writer: %w", err)
	}
	writerConn.SetMaxOpenConns(1)
	writerConn.SetMaxIdleConns(1)

	readerConn, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		_ = writerConn.Close()
		return nil, fmt.Errorf("store: open reader pool: %w", err)
	}

	if err := writerConn.PingContext(ctx); err != nil {
		_ = writerConn.Close()
		_ = readerConn.Close()
		return nil, fmt.Errorf("store: ping writer: %w", err)
	}
	if _, err := writerConn.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		_ = writerConn.Close()
		_ = readerConn.Close()
		return nil, fmt.Errorf("store: enable foreign keys: %w", err)
	}

	if err := runMigrations(ctx, writerConn); err != nil {
		_ = writerConn.Close()
		_ = readerConn.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	return &Store{
		writer: sqlx.NewDb(writerConn, "sqlite"),
		reader: sqlx.NewDb(readerConn, "sqlite"),
		path:   path,
	}, nil
}

// Close releases both pools. Safe to call on a nil Store.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var firstErr error
	if s.writer != nil {
		if err := s.writer.Close(); err != nil {
			firstErr = err
		}
	}
	if s.reader != nil {
		if err := s.reader.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Path returns the underlying database file path.
func (s *Store) Path() string { return s.path }

// withTx runs fn inside a single transaction on the writer connection,
// committing on success and rolling back on any error or panic. Used
// for multi-row updates that must be atomic (session + operation state
// changes).
func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := s.writer.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	err = fn(tx)
	return err
}
