package manager

import (
	"context"
	"log/slog"
	"time"

	"github.com/zhubert/plural-orchestrator/internal/eventbus"
	"github.com/zhubert/plural-orchestrator/internal/logger"
	"github.com/zhubert/plural-orchestrator/internal/store"
)

// Reducer is the single writer to in-memory session state.
// It consumes the event bus on one goroutine, applies each event to its
// session cache and live-state map, persists the change via internal/store,
// and rejects illegal StatusChanged transitions without mutating anything
// — generalized from the original single tea.Update dispatch loop into an
// app-level event switch independent of any particular UI framework.
type Reducer struct {
	st       *store.Store
	bus      *eventbus.Bus
	queues   *Queues
	log      *slog.Logger
	onUpdate func(sessionID string)

	sessions map[string]store.Session
	live     map[string]*sessionLiveState
}

// NewReducer builds a Reducer. onUpdate, if non-nil, is called after every
// applied event with the affected session's ID so the UI layer can
// re-render (e.g. by sending a tea.Msg into the program).
func NewReducer(st *store.Store, bus *eventbus.Bus, queues *Queues, onUpdate func(sessionID string)) *Reducer {
	return &Reducer{
		st:       st,
		bus:      bus,
		queues:   queues,
		log:      logger.ComponentLogger("manager.reducer"),
		onUpdate: onUpdate,
		sessions: make(map[string]store.Session),
		live:     make(map[string]*sessionLiveState),
	}
}

// Run consumes the bus until ctx is canceled or the bus is closed.
func (r *Reducer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-r.bus.C():
			if !ok {
				return
			}
			r.apply(ctx, ev)
		}
	}
}

func (r *Reducer) liveState(sessionID string) *sessionLiveState {
	ls, ok := r.live[sessionID]
	if !ok {
		ls = &sessionLiveState{}
		r.live[sessionID] = ls
	}
	return ls
}

func (r *Reducer) apply(ctx context.Context, ev eventbus.Event) {
	switch ev.Kind {
	case eventbus.SessionCreated:
		sess, ok := ev.Patch.(store.Session)
		if !ok {
			r.log.Error("SessionCreated event missing Session payload", "sessionID", ev.SessionID)
			return
		}
		r.sessions[sess.ID] = sess
		r.live[sess.ID] = &sessionLiveState{}

	case eventbus.SessionUpdated:
		patch, ok := ev.Patch.(store.SessionFields)
		if !ok {
			r.log.Error("SessionUpdated event missing SessionFields payload", "sessionID", ev.SessionID)
			return
		}
		if err := r.st.UpdateSessionFields(ctx, ev.SessionID, patch); err != nil {
			r.log.Error("failed to persist session update", "sessionID", ev.SessionID, "error", err)
			return
		}
		applySessionPatch(r.sessions, ev.SessionID, patch)

	case eventbus.SessionDeleted:
		delete(r.sessions, ev.SessionID)
		delete(r.live, ev.SessionID)

	case eventbus.StatusChanged:
		sess, ok := r.sessions[ev.SessionID]
		if !ok {
			return
		}
		from, to := store.Status(ev.OldStatus), store.Status(ev.NewStatus)
		if err := Transition(from, to); err != nil {
			r.log.Warn("rejected illegal status transition", "sessionID", ev.SessionID, "from", from, "to", to, "error", err)
			return
		}
		newStatus := to
		if err := r.st.UpdateSessionFields(ctx, ev.SessionID, store.SessionFields{Status: &newStatus}); err != nil {
			r.log.Error("failed to persist status change", "sessionID", ev.SessionID, "error", err)
			return
		}
		sess.Status = to
		r.sessions[ev.SessionID] = sess

	case eventbus.OutputAppended:
		r.liveState(ev.SessionID).appendOutput(ev.Chunk)

	case eventbus.UsageRecorded:
		if err := r.st.RecordUsage(ctx, ev.SessionID, ev.Model, ev.InputTokens, ev.OutputTokens); err != nil {
			r.log.Error("failed to record usage", "sessionID", ev.SessionID, "error", err)
		}

	case eventbus.OperationStarted:
		ls := r.liveState(ev.SessionID)
		ls.hasRunningOp = true
		ls.runningOpStart = time.Now()

	case eventbus.OperationFinished:
		ls := r.liveState(ev.SessionID)
		ls.hasRunningOp = false

	case eventbus.PrStateChanged:
		// Workflow functions translate this into the appropriate
		// StatusChanged event themselves (PullRequest -> Done/Review);
		// the reducer only needs to record it happened for logging.
		r.log.Debug("pr state changed", "sessionID", ev.SessionID, "state", ev.PrState)

	case eventbus.RefreshSessions, eventbus.Tick:
		// No session-map mutation; these exist purely to prompt the UI
		// layer (via onUpdate) to re-read snapshots.

	default:
		r.log.Warn("unknown event kind", "kind", ev.Kind)
	}

	if r.onUpdate != nil {
		r.onUpdate(ev.SessionID)
	}
}

// Snapshot assembles the current SessionSnapshot for one session.
func (r *Reducer) Snapshot(sessionID string) (SessionSnapshot, bool) {
	sess, ok := r.sessions[sessionID]
	if !ok {
		return SessionSnapshot{}, false
	}
	ls := r.liveState(sessionID)
	pending := r.queues.PendingKinds(sessionID)
	return assembleSnapshot(sess, ls, pending), true
}

// Snapshots returns every known session's snapshot, for the project
// session list view.
func (r *Reducer) Snapshots() []SessionSnapshot {
	out := make([]SessionSnapshot, 0, len(r.sessions))
	for id := range r.sessions {
		snap, ok := r.Snapshot(id)
		if ok {
			out = append(out, snap)
		}
	}
	return out
}

// applySessionPatch mutates the cached row in place for every non-nil
// field in patch, mirroring the sparse-patch semantics store.go applies
// to the database row.
func applySessionPatch(sessions map[string]store.Session, id string, patch store.SessionFields) {
	sess, ok := sessions[id]
	if !ok {
		return
	}
	if patch.Status != nil {
		sess.Status = *patch.Status
	}
	if patch.Title != nil {
		sess.Title = patch.Title
	}
	if patch.PrURL != nil {
		sess.PrURL = patch.PrURL
	}
	if patch.PrState != nil {
		sess.PrState = patch.PrState
	}
	if patch.WorktreePath != nil {
		sess.WorktreePath = patch.WorktreePath
	}
	if patch.BaseCommit != nil {
		sess.BaseCommit = *patch.BaseCommit
	}
	sessions[id] = sess
}
