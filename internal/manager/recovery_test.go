package manager

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/zhubert/plural-orchestrator/internal/store"
)

func seedProjectAndSession(t *testing.T, st *store.Store, sess store.Session) {
	t.Helper()
	ctx := context.Background()
	if err := st.UpsertProject(ctx, &store.Project{ID: sess.ProjectID, Path: "/repo-" + sess.ProjectID}); err != nil {
		t.Fatalf("UpsertProject() error = %v", err)
	}
	if err := st.InsertSession(ctx, &sess); err != nil {
		t.Fatalf("InsertSession() error = %v", err)
	}
}

func seedRunningOp(t *testing.T, st *store.Store, sessionID string, kind store.OperationKind) store.Operation {
	t.Helper()
	op := store.Operation{ID: "op-" + sessionID, SessionID: sessionID, Kind: kind, State: store.OpRunning}
	if err := st.PutOperation(context.Background(), &op); err != nil {
		t.Fatalf("PutOperation() error = %v", err)
	}
	return op
}

func TestReconcileRunningOperationsRestoresNewForInterruptedPrompt(t *testing.T) {
	m, st := newTestManager(t, newFakeExecutor())
	ctx := context.Background()

	sess := store.Session{ID: "s1", ProjectID: "p1", Status: store.StatusInProgress, AgentKind: store.AgentClaude}
	seedProjectAndSession(t, st, sess)
	seedRunningOp(t, st, "s1", store.OpPrompt)

	if err := m.reconcileRunningOperations(ctx); err != nil {
		t.Fatalf("reconcileRunningOperations() error = %v", err)
	}

	persisted, err := st.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if persisted.Status != store.StatusNew {
		t.Errorf("Status = %s, want New (an interrupted first prompt restores to New)", persisted.Status)
	}

	ops, err := st.ListOperationsForSession(ctx, "s1")
	if err != nil || len(ops) != 1 || ops[0].State != store.OpFailed {
		t.Errorf("ops = %+v, err = %v, want one Failed operation", ops, err)
	}
}

func TestReconcileRunningOperationsRestoresReviewForInterruptedReply(t *testing.T) {
	m, st := newTestManager(t, newFakeExecutor())
	ctx := context.Background()

	sess := store.Session{ID: "s1", ProjectID: "p1", Status: store.StatusInProgress, AgentKind: store.AgentClaude}
	seedProjectAndSession(t, st, sess)
	seedRunningOp(t, st, "s1", store.OpReply)

	if err := m.reconcileRunningOperations(ctx); err != nil {
		t.Fatalf("reconcileRunningOperations() error = %v", err)
	}

	persisted, err := st.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if persisted.Status != store.StatusReview {
		t.Errorf("Status = %s, want Review (an interrupted reply restores to Review)", persisted.Status)
	}
}

func TestReconcileRunningOperationsRestoresReviewForInterruptedPRCreation(t *testing.T) {
	m, st := newTestManager(t, newFakeExecutor())
	ctx := context.Background()

	sess := store.Session{ID: "s1", ProjectID: "p1", Status: store.StatusCreatingPullRequest, AgentKind: store.AgentClaude}
	seedProjectAndSession(t, st, sess)
	seedRunningOp(t, st, "s1", store.OpCreatePR)

	if err := m.reconcileRunningOperations(ctx); err != nil {
		t.Fatalf("reconcileRunningOperations() error = %v", err)
	}

	persisted, err := st.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if persisted.Status != store.StatusReview {
		t.Errorf("Status = %s, want Review", persisted.Status)
	}
}

func TestReconcileRunningOperationsReArmsPollMergeForPullRequest(t *testing.T) {
	m, st := newTestManager(t, newFakeExecutor())
	ctx := context.Background()

	sess := store.Session{ID: "s1", ProjectID: "p1", Status: store.StatusPullRequest, AgentKind: store.AgentClaude}
	seedProjectAndSession(t, st, sess)
	seedRunningOp(t, st, "s1", store.OpPollMerge)

	if err := m.reconcileRunningOperations(ctx); err != nil {
		t.Fatalf("reconcileRunningOperations() error = %v", err)
	}

	persisted, err := st.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if persisted.Status != store.StatusPullRequest {
		t.Errorf("Status = %s, want unchanged PullRequest", persisted.Status)
	}

	ops, err := st.ListOperationsForSession(ctx, "s1")
	if err != nil {
		t.Fatalf("ListOperationsForSession() error = %v", err)
	}
	var failed, pending int
	for _, op := range ops {
		switch op.State {
		case store.OpFailed:
			failed++
		case store.OpPending:
			pending++
		}
	}
	if failed != 1 || pending != 1 {
		t.Errorf("ops = %+v, want one Failed (the stale poll) and one Pending (the re-armed poll)", ops)
	}
}

func TestReconcileRunningOperationsLeavesDoneSessionStatusAlone(t *testing.T) {
	m, st := newTestManager(t, newFakeExecutor())
	ctx := context.Background()

	sess := store.Session{ID: "s1", ProjectID: "p1", Status: store.StatusDone, AgentKind: store.AgentClaude}
	seedProjectAndSession(t, st, sess)
	seedRunningOp(t, st, "s1", store.OpTitle)

	if err := m.reconcileRunningOperations(ctx); err != nil {
		t.Fatalf("reconcileRunningOperations() error = %v", err)
	}

	persisted, err := st.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if persisted.Status != store.StatusDone {
		t.Errorf("Status = %s, want unchanged Done", persisted.Status)
	}

	ops, err := st.ListOperationsForSession(ctx, "s1")
	if err != nil || len(ops) != 1 || ops[0].State != store.OpFailed {
		t.Errorf("ops = %+v, err = %v, want the stray operation marked Failed", ops, err)
	}
}

func TestReconcileRunningOperationsSkipsMissingSession(t *testing.T) {
	m, st := newTestManager(t, newFakeExecutor())
	ctx := context.Background()

	if err := st.PutOperation(ctx, &store.Operation{ID: "op-orphan", SessionID: "missing", Kind: store.OpPrompt, State: store.OpRunning}); err != nil {
		t.Fatalf("PutOperation() error = %v", err)
	}

	if err := m.reconcileRunningOperations(ctx); err != nil {
		t.Fatalf("reconcileRunningOperations() error = %v, want no error when a session is gone", err)
	}
}

func TestScanOrphanWorktreesNoOpWithoutWorktreeDir(t *testing.T) {
	m, st := newTestManager(t, newFakeExecutor())
	ctx := context.Background()

	if err := st.UpsertProject(ctx, &store.Project{ID: "p1", Path: filepath.Join(t.TempDir(), "repo")}); err != nil {
		t.Fatalf("UpsertProject() error = %v", err)
	}

	m.scanOrphanWorktrees(ctx)
}

func TestScanOrphanWorktreesRecordsWorktreeMissingOperation(t *testing.T) {
	m, st := newTestManager(t, newFakeExecutor())
	ctx := context.Background()

	repoPath := filepath.Join(t.TempDir(), "repo")
	if err := st.UpsertProject(ctx, &store.Project{ID: "p1", Path: repoPath}); err != nil {
		t.Fatalf("UpsertProject() error = %v", err)
	}

	gone := filepath.Join(t.TempDir(), "vanished-worktree")
	sess := store.Session{ID: "s1", ProjectID: "p1", Status: store.StatusInProgress, AgentKind: store.AgentClaude, WorktreePath: &gone}
	if err := st.InsertSession(ctx, &sess); err != nil {
		t.Fatalf("InsertSession() error = %v", err)
	}

	m.scanOrphanWorktrees(ctx)

	ops, err := st.ListOperationsForSession(ctx, "s1")
	if err != nil {
		t.Fatalf("ListOperationsForSession() error = %v", err)
	}
	found := false
	for _, op := range ops {
		if op.Kind == store.OpWorktreeMissing {
			found = true
			if op.State != store.OpFailed {
				t.Errorf("WorktreeMissing operation state = %s, want %s", op.State, store.OpFailed)
			}
		}
	}
	if !found {
		t.Error("scanOrphanWorktrees did not record a WorktreeMissing operation for a session whose worktree vanished")
	}
}

func TestScanOrphanWorktreesSkipsDoneAndDeletedSessions(t *testing.T) {
	m, st := newTestManager(t, newFakeExecutor())
	ctx := context.Background()

	repoPath := filepath.Join(t.TempDir(), "repo")
	if err := st.UpsertProject(ctx, &store.Project{ID: "p1", Path: repoPath}); err != nil {
		t.Fatalf("UpsertProject() error = %v", err)
	}

	gone := filepath.Join(t.TempDir(), "vanished-worktree")
	done := store.Session{ID: "s-done", ProjectID: "p1", Status: store.StatusDone, AgentKind: store.AgentClaude, WorktreePath: &gone}
	if err := st.InsertSession(ctx, &done); err != nil {
		t.Fatalf("InsertSession() error = %v", err)
	}

	m.scanOrphanWorktrees(ctx)

	ops, err := st.ListOperationsForSession(ctx, "s-done")
	if err != nil {
		t.Fatalf("ListOperationsForSession() error = %v", err)
	}
	for _, op := range ops {
		if op.Kind == store.OpWorktreeMissing {
			t.Error("scanOrphanWorktrees recorded WorktreeMissing for a Done session's vanished worktree")
		}
	}
}

func TestRecoverRunsBothPhasesWithoutError(t *testing.T) {
	m, st := newTestManager(t, newFakeExecutor())
	ctx := context.Background()

	sess := store.Session{ID: "s1", ProjectID: "p1", Status: store.StatusInProgress, AgentKind: store.AgentClaude}
	seedProjectAndSession(t, st, sess)
	seedRunningOp(t, st, "s1", store.OpPrompt)

	if err := m.Recover(ctx); err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
}
