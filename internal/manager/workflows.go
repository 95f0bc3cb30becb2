package manager

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zhubert/plural-orchestrator/internal/backend"
	"github.com/zhubert/plural-orchestrator/internal/errtax"
	"github.com/zhubert/plural-orchestrator/internal/eventbus"
	"github.com/zhubert/plural-orchestrator/internal/logger"
	"github.com/zhubert/plural-orchestrator/internal/notification"
	"github.com/zhubert/plural-orchestrator/internal/prdriver"
	"github.com/zhubert/plural-orchestrator/internal/process"
	"github.com/zhubert/plural-orchestrator/internal/prompts"
	"github.com/zhubert/plural-orchestrator/internal/store"
	"github.com/zhubert/plural-orchestrator/internal/workflow"
	"github.com/zhubert/plural-orchestrator/internal/worktree"
)

// Manager is the top-level session lifecycle orchestrator, wiring the
// persistence store, worktree manager, backend factories, PR driver,
// event bus, and worker queues behind its workflow methods.
type Manager struct {
	store    *store.Store
	worktree *worktree.Manager
	prdriver *prdriver.Driver
	bus      *eventbus.Bus
	reducer  *Reducer
	queues   *Queues
	log      *slog.Logger

	// defaultAllowedTools is config.Config's DefaultAllowedTools, passed
	// to every backend adapter's StartRequest. The claude adapter narrows
	// it for the read-only PermissionMode; the gemini and codex adapters
	// pass it through unchanged.
	defaultAllowedTools []string
}

// New builds a Manager. onUpdate is forwarded to the Reducer so the UI
// layer learns when to re-render.
func New(st *store.Store, wt *worktree.Manager, pr *prdriver.Driver, allowedTools []string, onUpdate func(sessionID string)) *Manager {
	bus := eventbus.New(256)
	m := &Manager{
		store:               st,
		worktree:            wt,
		prdriver:            pr,
		bus:                 bus,
		log:                 logger.ComponentLogger("manager"),
		defaultAllowedTools: allowedTools,
	}
	m.reducer = NewReducer(st, bus, nil, onUpdate)
	m.queues = NewQueues(m.executeOp, m.onAbandoned)
	m.reducer.queues = m.queues
	return m
}

// Run starts the reducer's single consumer goroutine; call once at
// startup, after Recover.
func (m *Manager) Run(ctx context.Context) {
	m.reducer.Run(ctx)
}

// Reducer exposes the manager's reducer for snapshot reads by the UI
// layer's SessionSnapshot consumers.
func (m *Manager) Reducer() *Reducer { return m.reducer }

// Queues exposes the manager's per-session queues so cancel commands
// issued from the UI layer can reach Queues.Cancel directly.
func (m *Manager) Queues() *Queues { return m.queues }

// DefaultBranch resolves a repository's default branch, for UI callers
// that need it before invoking MergeLocal.
func (m *Manager) DefaultBranch(ctx context.Context, repoPath string) string {
	return m.worktree.DefaultBranch(ctx, repoPath)
}

func (m *Manager) onAbandoned(sessionID string, op QueuedOp) {
	errMsg := "Abandoned"
	now := time.Now().Unix()
	if err := m.store.UpdateOperationState(context.Background(), op.ID, store.OpFailed, &errMsg, &now); err != nil {
		m.log.Error("failed to mark abandoned operation", "opID", op.ID, "error", err)
	}
}

// repoPathForSession resolves a session's owning project's absolute repo
// path. Sessions only carry project_id; the project row is the source of
// truth for the checkout root, matching the original Project.Path field.
func (m *Manager) repoPathForSession(ctx context.Context, sess *store.Session) (string, error) {
	proj, err := m.store.GetProject(ctx, sess.ProjectID)
	if err != nil {
		return "", fmt.Errorf("manager: resolve project for session %s: %w", sess.ID, err)
	}
	return proj.Path, nil
}

// --- Create -----------------------------------------------------------

// CreateSession implements the create_session: inserts a row
// with status=New, allocates a worktree, and emits SessionCreated. No
// agent is invoked — the session awaits the first prompt.
func (m *Manager) CreateSession(ctx context.Context, projectID, repoPath, baseBranch string, kind store.AgentKind, mode store.PermissionMode, model string) (*store.Session, error) {
	if policy, err := workflow.Load(repoPath); err != nil {
		m.log.Warn("failed to load project policy", "repoPath", repoPath, "error", err)
	} else if policy != nil {
		if policy.AgentKind != "" {
			kind = policy.AgentKind
		}
		if policy.Model != "" {
			model = policy.Model
		}
		if policy.PermissionMode != "" {
			mode = policy.PermissionMode
		}
	}

	id := uuid.NewString()

	created, err := m.worktree.CreateWorktree(ctx, repoPath, id, baseBranch)
	if err != nil {
		return nil, fmt.Errorf("manager: create session worktree: %w", err)
	}

	sess := &store.Session{
		ID:             id,
		ProjectID:      projectID,
		Status:         store.StatusNew,
		AgentKind:      kind,
		Model:          model,
		PermissionMode: mode,
		BranchName:     created.BranchName,
		WorktreePath:   &created.WorktreePath,
		BaseCommit:     created.BaseCommit,
	}
	if err := m.store.InsertSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("manager: insert session: %w", err)
	}

	m.bus.Publish(eventbus.Event{Kind: eventbus.SessionCreated, SessionID: id, Patch: *sess})
	return sess, nil
}

// CreateForkedSession implements the supplemental fork workflow: the new
// session's base_commit is the parent's current HEAD, and its
// merge_to_base target is the parent's branch rather than the project's
// default base branch (generalized from the original CreateFromBranch /
// copyClaudeSessionForFork).
func (m *Manager) CreateForkedSession(ctx context.Context, parent store.Session) (*store.Session, error) {
	repoPath, err := m.repoPathForSession(ctx, &parent)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	created, err := m.worktree.CreateWorktree(ctx, repoPath, id, parent.BranchName)
	if err != nil {
		return nil, fmt.Errorf("manager: fork session worktree: %w", err)
	}

	sess := &store.Session{
		ID:             id,
		ProjectID:      parent.ProjectID,
		ParentID:       &parent.ID,
		Status:         store.StatusNew,
		AgentKind:      parent.AgentKind,
		Model:          parent.Model,
		PermissionMode: parent.PermissionMode,
		BranchName:     created.BranchName,
		WorktreePath:   &created.WorktreePath,
		BaseCommit:     created.BaseCommit,
	}
	if err := m.store.InsertSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("manager: insert forked session: %w", err)
	}

	m.bus.Publish(eventbus.Event{Kind: eventbus.SessionCreated, SessionID: id, Patch: *sess})
	return sess, nil
}

// --- Prompt / Reply -----------------------------------------------------

// SubmitPrompt implements both the first-prompt and reply workflows,
// which share one pipeline distinguished only by which status
// transition and OperationKind apply.
func (m *Manager) SubmitPrompt(ctx context.Context, sess store.Session, text string) error {
	var from, to store.Status
	var kind store.OperationKind
	switch sess.Status {
	case store.StatusNew:
		from, to, kind = store.StatusNew, store.StatusInProgress, store.OpPrompt
	case store.StatusReview:
		from, to, kind = store.StatusReview, store.StatusInProgress, store.OpReply
	default:
		return fmt.Errorf("manager: cannot submit prompt from status %s", sess.Status)
	}

	if err := Transition(from, to); err != nil {
		return err
	}
	m.bus.Publish(eventbus.Event{Kind: eventbus.StatusChanged, SessionID: sess.ID, OldStatus: string(from), NewStatus: string(to)})

	opID := uuid.NewString()
	op := &store.Operation{ID: opID, SessionID: sess.ID, Kind: kind, Payload: text, State: store.OpPending}
	if err := m.store.PutOperation(ctx, op); err != nil {
		return fmt.Errorf("manager: put operation: %w", err)
	}

	m.queues.Enqueue(sess.ID, QueuedOp{ID: opID, Kind: kind, Payload: text})
	return nil
}

// executeOp is the single entry point every queued op runs through,
// dispatched by kind. It is passed to NewQueues as the Executor.
func (m *Manager) executeOp(ctx context.Context, sessionID string, op QueuedOp) {
	now := time.Now().Unix()
	_ = m.store.UpdateOperationState(ctx, op.ID, store.OpRunning, nil, nil)
	m.bus.Publish(eventbus.Event{Kind: eventbus.OperationStarted, SessionID: sessionID, OperationID: op.ID})

	var runErr error
	switch op.Kind {
	case store.OpPrompt, store.OpReply:
		runErr = m.runAgentTurn(ctx, sessionID, op)
	case store.OpCreatePR:
		runErr = m.runCreatePR(ctx, sessionID, op)
	case store.OpPollMerge:
		runErr = m.runPollMerge(ctx, sessionID, op)
	case store.OpTitle:
		runErr = m.runTitleSummarization(ctx, sessionID, op)
	case store.OpFocusedReview:
		runErr = m.runFocusedReview(ctx, sessionID, op)
	default:
		runErr = fmt.Errorf("manager: unknown operation kind %s", op.Kind)
	}

	state := store.OpCompleted
	var errMsg *string
	if runErr != nil {
		state = store.OpFailed
		msg := runErr.Error()
		errMsg = &msg

		switch errtax.CategoryOf(runErr) {
		case errtax.Transient:
			m.log.Debug("operation failed, will retry", "kind", op.Kind, "sessionID", sessionID, "error", runErr)
		case errtax.Environmental:
			m.log.Warn("operation refused: missing prerequisite", "kind", op.Kind, "sessionID", sessionID, "error", runErr)
		default:
			m.log.Error("operation failed", "kind", op.Kind, "sessionID", sessionID, "category", errtax.CategoryOf(runErr).String(), "error", runErr)
		}
	}
	_ = m.store.UpdateOperationState(ctx, op.ID, state, errMsg, &now)
	m.bus.Publish(eventbus.Event{Kind: eventbus.OperationFinished, SessionID: sessionID, OperationID: op.ID, Result: runErr})
}

// runAgentTurn drives one backend turn: invoke the adapter, stream chunks
// as OutputAppended, record usage, commit the worktree, and transition
// InProgress -> Review. Adapter errors still land in Review — the session
// is not failed, since the user may retry with a reply — with the error
// surfaced as an OutputAppended marker instead.
func (m *Manager) runAgentTurn(ctx context.Context, sessionID string, op QueuedOp) error {
	sess, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	factory := backend.ForKind(backend.Kind(sess.AgentKind))
	if factory == nil {
		return errtax.NewEnvironmental("backend", fmt.Errorf("no backend registered for agent kind %s", sess.AgentKind))
	}
	ad := factory()
	defer ad.Finalize()

	prompt, _ := op.Payload.(string)
	startErr := ad.Start(ctx, backend.StartRequest{
		SessionID:      sessionID,
		WorkingDir:     worktreePathOf(sess),
		Prompt:         prompt,
		AllowedTools:   m.defaultAllowedTools,
		PermissionMode: string(sess.PermissionMode),
	})
	if startErr != nil {
		m.bus.Publish(eventbus.Event{Kind: eventbus.OutputAppended, SessionID: sessionID, Chunk: "\n[error] " + startErr.Error() + "\n"})
		return m.finishTurnIntoReview(ctx, sessionID)
	}

	for chunk := range ad.Events() {
		switch chunk.Kind {
		case backend.ChunkText:
			m.bus.Publish(eventbus.Event{Kind: eventbus.OutputAppended, SessionID: sessionID, Chunk: chunk.Text})
		case backend.ChunkUsage:
			m.bus.Publish(eventbus.Event{
				Kind: eventbus.UsageRecorded, SessionID: sessionID,
				Model: chunk.Usage.Model, InputTokens: chunk.Usage.InputTokens, OutputTokens: chunk.Usage.OutputTokens,
			})
		case backend.ChunkError:
			msg := chunk.Text
			if chunk.Err != nil {
				msg = chunk.Err.Error()
			}
			m.bus.Publish(eventbus.Event{Kind: eventbus.OutputAppended, SessionID: sessionID, Chunk: "\n[error] " + msg + "\n"})
			goto turnDone
		case backend.ChunkDone:
			goto turnDone
		}
	}
turnDone:

	if _, err := m.worktree.CommitAll(ctx, worktreePathOf(sess), "agent turn"); err != nil {
		m.log.Warn("commit after agent turn failed", "sessionID", sessionID, "error", err)
	}

	return m.finishTurnIntoReview(ctx, sessionID)
}

func (m *Manager) finishTurnIntoReview(ctx context.Context, sessionID string) error {
	m.bus.Publish(eventbus.Event{Kind: eventbus.StatusChanged, SessionID: sessionID, OldStatus: string(store.StatusInProgress), NewStatus: string(store.StatusReview)})

	sess, err := m.store.GetSession(ctx, sessionID)
	if err == nil && sess.Title == nil {
		opID := uuid.NewString()
		titleOp := &store.Operation{ID: opID, SessionID: sessionID, Kind: store.OpTitle, State: store.OpPending}
		if err := m.store.PutOperation(ctx, titleOp); err == nil {
			m.queues.Enqueue(sessionID, QueuedOp{ID: opID, Kind: store.OpTitle})
		}
	}

	name := sessionID
	if err == nil && sess.Title != nil {
		name = *sess.Title
	} else if err == nil {
		name = sess.BranchName
	}
	if notifyErr := notification.SessionCompleted(name); notifyErr != nil {
		m.log.Debug("desktop notification failed", "sessionID", sessionID, "error", notifyErr)
	}

	if err == nil {
		if repoPath, repoErr := m.repoPathForSession(ctx, sess); repoErr == nil {
			if policy, policyErr := workflow.Load(repoPath); policyErr == nil && policy != nil && policy.AutoCreatePR {
				if prErr := m.CreatePullRequest(ctx, *sess); prErr != nil {
					m.log.Warn("auto create_pr failed", "sessionID", sessionID, "error", prErr)
				}
			}
		}
	}
	return nil
}

func worktreePathOf(sess *store.Session) string {
	if sess.WorktreePath == nil {
		return ""
	}
	return *sess.WorktreePath
}

// --- Create PR / Poll merge / Local merge --------------------------------

// CreatePullRequest implements the create_pr workflow.
func (m *Manager) CreatePullRequest(ctx context.Context, sess store.Session) error {
	if err := Transition(store.StatusReview, store.StatusCreatingPullRequest); err != nil {
		return err
	}
	m.bus.Publish(eventbus.Event{Kind: eventbus.StatusChanged, SessionID: sess.ID, OldStatus: string(store.StatusReview), NewStatus: string(store.StatusCreatingPullRequest)})

	opID := uuid.NewString()
	op := &store.Operation{ID: opID, SessionID: sess.ID, Kind: store.OpCreatePR, State: store.OpPending}
	if err := m.store.PutOperation(ctx, op); err != nil {
		return err
	}
	m.queues.Enqueue(sess.ID, QueuedOp{ID: opID, Kind: store.OpCreatePR})
	return nil
}

func (m *Manager) runCreatePR(ctx context.Context, sessionID string, op QueuedOp) error {
	sess, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	repoPath, err := m.repoPathForSession(ctx, sess)
	if err != nil {
		return err
	}
	baseBranch := m.worktree.DefaultBranch(ctx, repoPath)

	pr, err := m.prdriver.CreatePullRequest(ctx, repoPath, sess.BranchName, baseBranch, "", "")
	if err != nil {
		m.bus.Publish(eventbus.Event{Kind: eventbus.StatusChanged, SessionID: sessionID, OldStatus: string(store.StatusCreatingPullRequest), NewStatus: string(store.StatusReview)})
		m.bus.Publish(eventbus.Event{Kind: eventbus.OutputAppended, SessionID: sessionID, Chunk: "\n[error] create PR failed: " + err.Error() + "\n"})
		return err
	}

	url := pr.URL
	m.bus.Publish(eventbus.Event{Kind: eventbus.SessionUpdated, SessionID: sessionID, Patch: store.SessionFields{PrURL: &url}})
	m.bus.Publish(eventbus.Event{Kind: eventbus.StatusChanged, SessionID: sessionID, OldStatus: string(store.StatusCreatingPullRequest), NewStatus: string(store.StatusPullRequest)})

	pollOpID := uuid.NewString()
	pollOp := &store.Operation{ID: pollOpID, SessionID: sessionID, Kind: store.OpPollMerge, State: store.OpPending}
	if err := m.store.PutOperation(ctx, pollOp); err == nil {
		m.queues.Enqueue(sessionID, QueuedOp{ID: pollOpID, Kind: store.OpPollMerge})
	}
	return nil
}

// runPollMerge implements poll_merge's self-rescheduling behavior:
// enqueue the next poll on completion regardless of outcome. After a
// transient gh failure the delay doubles from the previous one (carried in
// the op's Payload), capped at prdriver.MaxPollInterval; every other
// outcome reschedules after prdriver.InitialPollInterval.
func (m *Manager) runPollMerge(ctx context.Context, sessionID string, op QueuedOp) error {
	sess, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.Status != store.StatusPullRequest {
		return nil
	}

	repoPath, err := m.repoPathForSession(ctx, sess)
	if err != nil {
		m.rescheduleDelayedPoll(sessionID, prdriver.InitialPollInterval)
		return err
	}

	statuses, err := m.prdriver.BatchPollStates(ctx, repoPath, []string{sess.BranchName})
	if err != nil {
		next := prdriver.InitialPollInterval
		if prev, ok := op.Payload.(time.Duration); ok {
			next = prev * 2
			if next > prdriver.MaxPollInterval {
				next = prdriver.MaxPollInterval
			}
		}
		m.rescheduleDelayedPoll(sessionID, next)
		return errtax.NewTransient("prdriver", err)
	}

	st, found := statuses[sess.BranchName]
	if !found {
		m.rescheduleDelayedPoll(sessionID, prdriver.InitialPollInterval)
		return nil
	}

	m.bus.Publish(eventbus.Event{Kind: eventbus.PrStateChanged, SessionID: sessionID, PrState: st.State})

	switch st.State {
	case "MERGED":
		m.bus.Publish(eventbus.Event{Kind: eventbus.StatusChanged, SessionID: sessionID, OldStatus: string(store.StatusPullRequest), NewStatus: string(store.StatusDone)})
		return nil
	case "CLOSED":
		m.bus.Publish(eventbus.Event{Kind: eventbus.StatusChanged, SessionID: sessionID, OldStatus: string(store.StatusPullRequest), NewStatus: string(store.StatusReview)})
		m.bus.Publish(eventbus.Event{Kind: eventbus.OutputAppended, SessionID: sessionID, Chunk: "\n[PR closed without merge]\n"})
		return nil
	default:
		m.rescheduleDelayedPoll(sessionID, prdriver.InitialPollInterval)
		return nil
	}
}

func (m *Manager) rescheduleDelayedPoll(sessionID string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		opID := uuid.NewString()
		op := &store.Operation{ID: opID, SessionID: sessionID, Kind: store.OpPollMerge, State: store.OpPending}
		if err := m.store.PutOperation(context.Background(), op); err == nil {
			m.queues.Enqueue(sessionID, QueuedOp{ID: opID, Kind: store.OpPollMerge, Payload: delay})
		}
	})
}

// MergeLocal implements the local merge workflow: invoke
// merge_to_base directly (no PR involved); on Ok, transition Review ->
// Done.
func (m *Manager) MergeLocal(ctx context.Context, sess store.Session, baseBranch string) (*worktree.MergeOutcome, error) {
	repoPath, err := m.repoPathForSession(ctx, &sess)
	if err != nil {
		return nil, err
	}
	if sess.ParentID != nil {
		if parent, perr := m.store.GetSession(ctx, *sess.ParentID); perr == nil {
			baseBranch = parent.BranchName
		}
	}

	outcome, err := m.worktree.MergeToBase(ctx, repoPath, worktreePathOf(&sess), sess.BranchName, baseBranch, "")
	if err != nil {
		return outcome, err
	}
	if outcome.Result == worktree.MergeOk {
		if terr := Transition(store.StatusReview, store.StatusDone); terr == nil {
			m.bus.Publish(eventbus.Event{Kind: eventbus.StatusChanged, SessionID: sess.ID, OldStatus: string(store.StatusReview), NewStatus: string(store.StatusDone)})
		}
	}
	return outcome, nil
}

// RequestFocusedReview enqueues a FocusedReview op scoped to one diff hunk
// rather than the whole worktree diff, without touching session status —
// it's a read-only side conversation, not a lifecycle transition.
func (m *Manager) RequestFocusedReview(ctx context.Context, sess store.Session, diff string) error {
	opID := uuid.NewString()
	op := &store.Operation{ID: opID, SessionID: sess.ID, Kind: store.OpFocusedReview, Payload: diff, State: store.OpPending}
	if err := m.store.PutOperation(ctx, op); err != nil {
		return fmt.Errorf("manager: put operation: %w", err)
	}
	m.queues.Enqueue(sess.ID, QueuedOp{ID: opID, Kind: store.OpFocusedReview, Payload: diff})
	return nil
}

// --- Delete / project switch -------------------------------------------

// DeleteSession implements the delete workflow: cancel
// in-flight op, drain queue, remove worktree, delete DB rows.
func (m *Manager) DeleteSession(ctx context.Context, sess store.Session) error {
	m.queues.Shutdown(sess.ID)

	if killed, err := process.KillClaudeProcesses(sess.ID); err != nil {
		m.log.Warn("failed to check for orphaned agent processes during delete", "sessionID", sess.ID, "error", err)
	} else if killed > 0 {
		m.log.Warn("killed orphaned agent process during delete", "sessionID", sess.ID, "count", killed)
	}

	if sess.WorktreePath != nil {
		repoPath, err := m.repoPathForSession(ctx, &sess)
		if err != nil {
			m.log.Warn("failed to resolve repo path during delete", "sessionID", sess.ID, "error", err)
		} else if err := m.worktree.RemoveWorktree(ctx, repoPath, *sess.WorktreePath, sess.BranchName); err != nil {
			m.log.Warn("failed to remove worktree during delete", "sessionID", sess.ID, "error", err)
		}
	}

	if err := m.store.DeleteSession(ctx, sess.ID); err != nil {
		return err
	}
	m.bus.Publish(eventbus.Event{Kind: eventbus.SessionDeleted, SessionID: sess.ID})
	return nil
}

// SwitchProject implements the project-switch workflow: it
// does not stop polling for other projects' sessions, it only asks the UI
// to reload the active snapshot list.
func (m *Manager) SwitchProject(projectID string) {
	m.bus.Publish(eventbus.Event{Kind: eventbus.RefreshSessions, ProjectID: projectID})
}

// --- Title summarization -------------------------------------------------

func (m *Manager) runTitleSummarization(ctx context.Context, sessionID string, op QueuedOp) error {
	sess, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.Title != nil {
		return nil
	}

	factory := backend.ForKind(backend.Kind(sess.AgentKind))
	if factory == nil {
		return errtax.NewEnvironmental("backend", fmt.Errorf("no backend registered for agent kind %s", sess.AgentKind))
	}
	ad := factory()
	defer ad.Finalize()

	prompt := prompts.Render(prompts.TitlePrompt, prompts.Vars{SessionSummary: sess.BranchName})
	if err := ad.Start(ctx, backend.StartRequest{SessionID: sessionID, WorkingDir: worktreePathOf(sess), Prompt: prompt}); err != nil {
		return err
	}

	var title string
	for chunk := range ad.Events() {
		if chunk.Kind == backend.ChunkText {
			title = strings.TrimSpace(firstLine(chunk.Text))
		}
		if chunk.Kind == backend.ChunkDone {
			break
		}
	}
	if title == "" {
		return nil
	}
	if len(title) > 72 {
		title = title[:72]
	}

	m.bus.Publish(eventbus.Event{Kind: eventbus.SessionUpdated, SessionID: sessionID, Patch: store.SessionFields{Title: &title}})
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// runFocusedReview renders a diff-scoped review prompt using the
// focused_review_diff placeholder, for the "ask the agent to review just
// this hunk" supplemental workflow.
func (m *Manager) runFocusedReview(ctx context.Context, sessionID string, op QueuedOp) error {
	sess, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	diff, _ := op.Payload.(string)

	factory := backend.ForKind(backend.Kind(sess.AgentKind))
	if factory == nil {
		return errtax.NewEnvironmental("backend", fmt.Errorf("no backend registered for agent kind %s", sess.AgentKind))
	}
	ad := factory()
	defer ad.Finalize()

	prompt := prompts.Render(prompts.FocusedReviewPrompt, prompts.Vars{FocusedReviewDiff: diff})
	if err := ad.Start(ctx, backend.StartRequest{SessionID: sessionID, WorkingDir: worktreePathOf(sess), Prompt: prompt}); err != nil {
		return err
	}
	for chunk := range ad.Events() {
		if chunk.Kind == backend.ChunkText {
			m.bus.Publish(eventbus.Event{Kind: eventbus.OutputAppended, SessionID: sessionID, Chunk: chunk.Text})
		}
		if chunk.Kind == backend.ChunkDone {
			break
		}
	}
	return nil
}
