package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// PutOperation inserts a new operation row, typically in state Pending or
// Running as the worker queue starts it.
func (s *Store) PutOperation(ctx context.Context, op *Operation) error {
	_, err := s.writer.NamedExecContext(ctx, `
INSERT INTO operation (id, session_id, kind, payload, state, error, started_at, finished_at, created_at, updated_at)
VALUES (:id, :session_id, :kind, :payload, :state, :error, :started_at, :finished_at, :created_at, :updated_at)
`, op)
	if err != nil {
		return fmt.Errorf("store: put operation %s: %w", op.ID, err)
	}
	return nil
}

// UpdateOperationState transitions one operation's state and optionally
// records its error and finish time. Session status changes that
// accompany an operation transition are
// committed in the same transaction via UpdateOperationStateAndSession.
func (s *Store) UpdateOperationState(ctx context.Context, id string, state OperationState, errMsg *string, finishedAt *int64) error {
	_, err := s.writer.ExecContext(ctx, `
UPDATE operation SET state = ?, error = ?, finished_at = ?, updated_at = 0 WHERE id = ?
`, state, errMsg, finishedAt, id)
	if err != nil {
		return fmt.Errorf("store: update operation state %s: %w", id, err)
	}
	return nil
}

// UpdateOperationStateAndSession atomically finishes an operation and
// applies the corresponding session patch in one transaction, matching
// the "multi-row updates affecting session + operation use one
// transaction".
func (s *Store) UpdateOperationStateAndSession(ctx context.Context, opID string, state OperationState, errMsg *string, finishedAt *int64, sessionID string, patch SessionFields) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
UPDATE operation SET state = ?, error = ?, finished_at = ?, updated_at = 0 WHERE id = ?
`, state, errMsg, finishedAt, opID); err != nil {
			return fmt.Errorf("update operation: %w", err)
		}

		sets, args := sessionFieldsToSQL(patch)
		if len(sets) > 0 {
			sets = append(sets, "updated_at = 0")
			args = append(args, sessionID)
			query := "UPDATE session SET " + strings.Join(sets, ", ") + " WHERE id = ?"
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("update session: %w", err)
			}
		}
		return nil
	})
}

// ListUnfinishedOperations returns every operation with state=Running,
// consulted by the recovery reconciler on startup.
func (s *Store) ListUnfinishedOperations(ctx context.Context) ([]Operation, error) {
	var ops []Operation
	err := s.reader.SelectContext(ctx, &ops, `
SELECT id, session_id, kind, payload, state, error, started_at, finished_at, created_at, updated_at
FROM operation WHERE state = ?`, OpRunning)
	if err != nil {
		return nil, fmt.Errorf("store: list unfinished operations: %w", err)
	}
	return ops, nil
}

// ListOperationsForSession returns every operation belonging to a session,
// most recent first — used by the snapshot assembler to derive the busy
// flag and pending op kinds.
func (s *Store) ListOperationsForSession(ctx context.Context, sessionID string) ([]Operation, error) {
	var ops []Operation
	err := s.reader.SelectContext(ctx, &ops, `
SELECT id, session_id, kind, payload, state, error, started_at, finished_at, created_at, updated_at
FROM operation WHERE session_id = ? ORDER BY created_at DESC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("store: list operations for session %s: %w", sessionID, err)
	}
	return ops, nil
}
