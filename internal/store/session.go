package store

import (
	"context"
	"fmt"
	"strings"
)

// InsertSession inserts a new session row, used by the create-session
// workflow with status=New and no worktree yet populated beyond what the
// caller already resolved.
func (s *Store) InsertSession(ctx context.Context, sess *Session) error {
	_, err := s.writer.NamedExecContext(ctx, `
INSERT INTO session (
	id, project_id, parent_id, title, status, agent_kind, model, permission_mode,
	branch_name, worktree_path, base_commit, pr_url, pr_state,
	input_tokens, output_tokens, deleted_at, created_at, updated_at
) VALUES (
	:id, :project_id, :parent_id, :title, :status, :agent_kind, :model, :permission_mode,
	:branch_name, :worktree_path, :base_commit, :pr_url, :pr_state,
	:input_tokens, :output_tokens, :deleted_at, :created_at, :updated_at
)`, sess)
	if err != nil {
		return fmt.Errorf("store: insert session %s: %w", sess.ID, err)
	}
	return nil
}

// SessionFields is a sparse patch applied by UpdateSessionFields. Only
// non-nil fields are written; everything else is left untouched. This
// mirrors the SessionUpdated(id, patch) event shape.
type SessionFields struct {
	Title          *string
	Status         *Status
	Model          *string
	PermissionMode *PermissionMode
	WorktreePath   *string
	BaseCommit     *string
	PrURL          *string
	PrState        *string
	InputTokens    *int64
	OutputTokens   *int64
	DeletedAt      *int64
}

// sessionFieldsToSQL turns a sparse SessionFields patch into a `col = ?`
// list and matching args, shared by UpdateSessionFields (standalone) and
// UpdateOperationStateAndSession (same patch applied inside a tx).
func sessionFieldsToSQL(patch SessionFields) ([]string, []interface{}) {
	sets := make([]string, 0, 8)
	args := make([]interface{}, 0, 8)

	add := func(col string, val interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Model != nil {
		add("model", *patch.Model)
	}
	if patch.PermissionMode != nil {
		add("permission_mode", *patch.PermissionMode)
	}
	if patch.WorktreePath != nil {
		add("worktree_path", *patch.WorktreePath)
	}
	if patch.BaseCommit != nil {
		add("base_commit", *patch.BaseCommit)
	}
	if patch.PrURL != nil {
		add("pr_url", *patch.PrURL)
	}
	if patch.PrState != nil {
		add("pr_state", *patch.PrState)
	}
	if patch.InputTokens != nil {
		add("input_tokens", *patch.InputTokens)
	}
	if patch.OutputTokens != nil {
		add("output_tokens", *patch.OutputTokens)
	}
	if patch.DeletedAt != nil {
		add("deleted_at", *patch.DeletedAt)
	}
	return sets, args
}

// UpdateSessionFields applies a sparse patch to one session row.
func (s *Store) UpdateSessionFields(ctx context.Context, id string, patch SessionFields) error {
	sets, args := sessionFieldsToSQL(patch)
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = 0")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE session SET %s WHERE id = ?`, strings.Join(sets, ", "))
	if _, err := s.writer.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("store: update session fields %s: %w", id, err)
	}
	return nil
}

// DeleteSession hard-deletes a session row and cascades to its operations;
// session_usage rows survive via ON DELETE SET NULL. Soft delete is
// UpdateSessionFields with DeletedAt set instead.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.writer.ExecContext(ctx, `DELETE FROM session WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete session %s: %w", id, err)
	}
	return nil
}

// GetSession looks up one session by id, including soft-deleted rows.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	var sess Session
	err := s.reader.GetContext(ctx, &sess, `
SELECT id, project_id, parent_id, title, status, agent_kind, model, permission_mode,
       branch_name, worktree_path, base_commit, pr_url, pr_state,
       input_tokens, output_tokens, deleted_at, created_at, updated_at
FROM session WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("store: get session %s: %w", id, err)
	}
	return &sess, nil
}

// ListSessions returns sessions belonging to a project, optionally
// narrowed by SessionFilter.
func (s *Store) ListSessions(ctx context.Context, projectID string, filter SessionFilter) ([]Session, error) {
	query := `
SELECT id, project_id, parent_id, title, status, agent_kind, model, permission_mode,
       branch_name, worktree_path, base_commit, pr_url, pr_state,
       input_tokens, output_tokens, deleted_at, created_at, updated_at
FROM session WHERE project_id = ?`
	args := []interface{}{projectID}

	if !filter.IncludeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY created_at ASC`

	var sessions []Session
	if err := s.reader.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, fmt.Errorf("store: list sessions for project %s: %w", projectID, err)
	}
	return sessions, nil
}

// ListAllSessions returns every non-deleted session across every project,
// used by the recovery reconciler and by PR polling, which operate
// across project boundaries.
func (s *Store) ListAllSessions(ctx context.Context) ([]Session, error) {
	var sessions []Session
	err := s.reader.SelectContext(ctx, &sessions, `
SELECT sess.id, sess.project_id, sess.parent_id, sess.title, sess.status, sess.agent_kind, sess.model, sess.permission_mode,
       sess.branch_name, sess.worktree_path, sess.base_commit, sess.pr_url, sess.pr_state,
       sess.input_tokens, sess.output_tokens, sess.deleted_at, sess.created_at, sess.updated_at
FROM session sess WHERE sess.deleted_at IS NULL ORDER BY sess.created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("store: list all sessions: %w", err)
	}
	return sessions, nil
}
