package manager

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/zhubert/plural-orchestrator/internal/eventbus"
	"github.com/zhubert/plural-orchestrator/internal/store"
	"github.com/zhubert/plural-orchestrator/internal/worktree"
)

// Recover implements the three-step startup reconciliation.
// Call once, after migrations run and before the UI or worker queues
// start accepting new commands.
func (m *Manager) Recover(ctx context.Context) error {
	if err := m.reconcileRunningOperations(ctx); err != nil {
		return err
	}
	m.scanOrphanWorktrees(ctx)
	return nil
}

// reconcileRunningOperations implements steps 1-2: every Operation left
// in state Running when the process last exited is either failed back to
// a prior stable status, or (for PullRequest sessions) re-armed with a
// fresh PollMerge.
func (m *Manager) reconcileRunningOperations(ctx context.Context) error {
	ops, err := m.store.ListUnfinishedOperations(ctx)
	if err != nil {
		return err
	}

	for _, op := range ops {
		sess, err := m.store.GetSession(ctx, op.SessionID)
		if err != nil {
			m.log.Warn("recovery: unfinished operation references missing session", "opID", op.ID, "sessionID", op.SessionID, "error", err)
			continue
		}

		interrupted := "Interrupted"
		now := time.Now().Unix()

		switch sess.Status {
		case store.StatusInProgress:
			prior := store.StatusReview
			if op.Kind == store.OpPrompt {
				prior = store.StatusNew
			}
			if err := m.store.UpdateOperationStateAndSession(ctx, op.ID, store.OpFailed, &interrupted, &now, sess.ID, store.SessionFields{Status: &prior}); err != nil {
				m.log.Error("recovery: failed to reconcile InProgress operation", "opID", op.ID, "error", err)
				continue
			}
			m.log.Warn("recovery: marked interrupted operation failed, restored session", "sessionID", sess.ID, "opID", op.ID, "restoredStatus", prior)

		case store.StatusCreatingPullRequest:
			prior := store.StatusReview
			if err := m.store.UpdateOperationStateAndSession(ctx, op.ID, store.OpFailed, &interrupted, &now, sess.ID, store.SessionFields{Status: &prior}); err != nil {
				m.log.Error("recovery: failed to reconcile CreatingPullRequest operation", "opID", op.ID, "error", err)
				continue
			}
			m.log.Warn("recovery: marked interrupted PR creation failed, restored to Review", "sessionID", sess.ID, "opID", op.ID)

		case store.StatusPullRequest:
			if err := m.store.UpdateOperationState(ctx, op.ID, store.OpFailed, &interrupted, &now); err != nil {
				m.log.Error("recovery: failed to mark interrupted poll operation", "opID", op.ID, "error", err)
				continue
			}
			pollOpID := uuid.NewString()
			pollOp := &store.Operation{ID: pollOpID, SessionID: sess.ID, Kind: store.OpPollMerge, State: store.OpPending}
			if err := m.store.PutOperation(ctx, pollOp); err != nil {
				m.log.Error("recovery: failed to re-enqueue PollMerge", "sessionID", sess.ID, "error", err)
				continue
			}
			m.queues.Enqueue(sess.ID, QueuedOp{ID: pollOpID, Kind: store.OpPollMerge})
			m.log.Info("recovery: re-armed PollMerge for interrupted PullRequest session", "sessionID", sess.ID)

		default:
			// Done and New sessions never leave a Running operation behind
			// under normal operation; mark it failed without touching status.
			if err := m.store.UpdateOperationState(ctx, op.ID, store.OpFailed, &interrupted, &now); err != nil {
				m.log.Error("recovery: failed to mark stray running operation failed", "opID", op.ID, "error", err)
			}
		}
	}
	return nil
}

// recordWorktreeMissing persists a Failed(WorktreeMissing) pseudo-operation
// for a session whose worktree vanished out from under the process, so the
// gap shows up in the session's operation history rather than only its
// output buffer.
func (m *Manager) recordWorktreeMissing(ctx context.Context, sessionID, worktreePath string) {
	now := time.Now().Unix()
	errMsg := "worktree missing on disk: " + worktreePath
	op := &store.Operation{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Kind:       store.OpWorktreeMissing,
		State:      store.OpFailed,
		Error:      &errMsg,
		StartedAt:  &now,
		FinishedAt: &now,
	}
	if err := m.store.PutOperation(ctx, op); err != nil {
		m.log.Error("recovery: failed to record WorktreeMissing operation", "sessionID", sessionID, "error", err)
	}
}

// scanOrphanWorktrees implements step 3: worktrees on disk with no
// matching session are logged, never deleted, across every known
// project's repo path.
func (m *Manager) scanOrphanWorktrees(ctx context.Context) {
	projects, err := m.store.ListProjects(ctx)
	if err != nil {
		m.log.Warn("recovery: failed to list projects for orphan scan", "error", err)
		return
	}

	for _, proj := range projects {
		sessions, err := m.store.ListSessions(ctx, proj.ID, store.SessionFilter{IncludeDeleted: true})
		if err != nil {
			m.log.Warn("recovery: failed to list sessions for orphan scan", "projectID", proj.ID, "error", err)
			continue
		}

		known := make(map[string]bool, len(sessions))
		for _, sess := range sessions {
			if sess.WorktreePath != nil {
				known[*sess.WorktreePath] = true
			}
			if sess.Status != store.StatusDone && sess.DeletedAt == nil && sess.WorktreePath != nil {
				if _, err := os.Stat(*sess.WorktreePath); err != nil {
					m.log.Warn("recovery: session's worktree is missing on disk", "sessionID", sess.ID, "worktreePath", *sess.WorktreePath)
					m.recordWorktreeMissing(ctx, sess.ID, *sess.WorktreePath)
					m.bus.Publish(eventbus.Event{Kind: eventbus.OutputAppended, SessionID: sess.ID, Chunk: "\n[warning] worktree missing on disk; session may need to be deleted and recreated\n"})
				}
			}
		}

		orphans, err := worktree.FindOrphans(proj.Path, known)
		if err != nil {
			m.log.Warn("recovery: failed to scan for orphan worktrees", "projectPath", proj.Path, "error", err)
			continue
		}
		for _, o := range orphans {
			m.log.Info("recovery: found orphaned worktree, leaving in place", "path", o.Path, "branch", o.BranchName)
		}
	}
}
