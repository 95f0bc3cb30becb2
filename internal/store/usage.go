package store

import (
	"context"
	"fmt"
)

// RecordUsage accumulates input/output token counts for one
// (session_id, model) pair. Additive, never reset — totals must stay
// monotonically non-decreasing, which a plain additive UPSERT guarantees
// as long as callers never pass negative deltas.
func (s *Store) RecordUsage(ctx context.Context, sessionID, model string, in, out int64) error {
	_, err := s.writer.ExecContext(ctx, `
INSERT INTO session_usage (session_id, model, input_tokens, output_tokens, invocation_count, created_at)
VALUES (?, ?, ?, ?, 1, 0)
ON CONFLICT (session_id, model) DO UPDATE SET
	input_tokens = input_tokens + excluded.input_tokens,
	output_tokens = output_tokens + excluded.output_tokens,
	invocation_count = invocation_count + 1
`, sessionID, model, in, out)
	if err != nil {
		return fmt.Errorf("store: record usage for session %s model %s: %w", sessionID, model, err)
	}
	return nil
}

// ListUsageForSession returns every per-model usage row still linked to a
// session. Rows whose session_id has been nulled out by a hard delete no
// longer match and are not returned.
func (s *Store) ListUsageForSession(ctx context.Context, sessionID string) ([]SessionUsage, error) {
	var rows []SessionUsage
	err := s.reader.SelectContext(ctx, &rows, `
SELECT session_id, model, input_tokens, output_tokens, invocation_count, created_at
FROM session_usage WHERE session_id = ?`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("store: list usage for session %s: %w", sessionID, err)
	}
	return rows, nil
}

// VacuumUsageForSession permanently removes usage history for a session.
// Hard delete leaves session_usage.session_id NULLed by the foreign key's
// ON DELETE SET NULL; this is the explicit opt-in for a caller that also
// wants the usage ledger gone, not just orphaned.
func (s *Store) VacuumUsageForSession(ctx context.Context, sessionID string) error {
	if _, err := s.writer.ExecContext(ctx, `DELETE FROM session_usage WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("store: vacuum usage for session %s: %w", sessionID, err)
	}
	return nil
}
