package store

import (
	"context"
	"fmt"
)

// UpsertProject inserts or updates a project row keyed by path.
// Created-on-first-selection is the caller's responsibility; this call
// is idempotent on path.
func (s *Store) UpsertProject(ctx context.Context, p *Project) error {
	_, err := s.writer.ExecContext(ctx, `
INSERT INTO project (id, path, display_name, is_favorite, created_at, updated_at, last_opened_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (path) DO UPDATE SET
	display_name = excluded.display_name,
	is_favorite = excluded.is_favorite,
	last_opened_at = excluded.last_opened_at,
	updated_at = 0
`, p.ID, p.Path, p.DisplayName, p.IsFavorite, p.CreatedAt, p.UpdatedAt, p.LastOpenedAt)
	if err != nil {
		return fmt.Errorf("store: upsert project: %w", err)
	}
	return nil
}

// ListProjects returns every project ordered by most-recently-opened.
func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	err := s.reader.SelectContext(ctx, &projects, `
SELECT id, path, display_name, is_favorite, created_at, updated_at, last_opened_at
FROM project
ORDER BY COALESCE(last_opened_at, 0) DESC, created_at DESC
`)
	if err != nil {
		return nil, fmt.Errorf("store: list projects: %w", err)
	}
	return projects, nil
}

// ListProjectsWithCounts is the sidebar's reload query: every project plus
// its live (non-deleted) session count.
func (s *Store) ListProjectsWithCounts(ctx context.Context) ([]ProjectWithCounts, error) {
	var rows []ProjectWithCounts
	err := s.reader.SelectContext(ctx, &rows, `
SELECT
	p.id, p.path, p.display_name, p.is_favorite, p.created_at, p.updated_at, p.last_opened_at,
	COUNT(sess.id) AS session_count
FROM project p
LEFT JOIN session sess ON sess.project_id = p.id AND sess.deleted_at IS NULL
GROUP BY p.id
ORDER BY COALESCE(p.last_opened_at, 0) DESC, p.created_at DESC
`)
	if err != nil {
		return nil, fmt.Errorf("store: list projects with counts: %w", err)
	}
	return rows, nil
}

// GetProject looks up a single project by id.
func (s *Store) GetProject(ctx context.Context, id string) (*Project, error) {
	var p Project
	err := s.reader.GetContext(ctx, &p, `
SELECT id, path, display_name, is_favorite, created_at, updated_at, last_opened_at
FROM project WHERE id = ?
`, id)
	if err != nil {
		return nil, fmt.Errorf("store: get project %s: %w", id, err)
	}
	return &p, nil
}

// TouchProjectOpened records that a project was just selected, for the
// most-recently-opened ordering.
func (s *Store) TouchProjectOpened(ctx context.Context, id string, openedAt int64) error {
	_, err := s.writer.ExecContext(ctx, `UPDATE project SET last_opened_at = ? WHERE id = ?`, openedAt, id)
	if err != nil {
		return fmt.Errorf("store: touch project opened: %w", err)
	}
	return nil
}
