package manager

import (
	"context"
	"sync"
	"time"

	"github.com/zhubert/plural-orchestrator/internal/store"
)

// shutdownJoinTimeout bounds how long Queues.Shutdown waits for a
// session's executor goroutine to notice cancellation and exit, per
// the "graceful cancellation then join with a 5s timeout".
const shutdownJoinTimeout = 5 * time.Second

// QueuedOp is one unit of work enqueued for a session's executor.
type QueuedOp struct {
	ID      string
	Kind    store.OperationKind
	Payload any
}

// Executor runs one QueuedOp to completion (or cancellation), publishing
// whatever events the op's workflow function needs along the way. It is
// supplied once when constructing Queues and shared by every session.
type Executor func(ctx context.Context, sessionID string, op QueuedOp)

// AbandonedFunc is invoked for every op dropped from a queue being torn
// down; those ops are marked Failed(Abandoned) rather than left pending.
type AbandonedFunc func(sessionID string, op QueuedOp)

// sessionQueue is one session's FIFO plus the machinery to run it: a
// lazily-spawned single executor goroutine, matching the original
// one-runner-per-session-map pattern (SessionManager.runners) generalized
// from "one Claude runner" to "one op executor."
type sessionQueue struct {
	mu      sync.Mutex
	pending []QueuedOp
	active  bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// Queues owns every session's worker queue.
type Queues struct {
	mu        sync.Mutex
	sessions  map[string]*sessionQueue
	executor  Executor
	abandoned AbandonedFunc
}

// NewQueues builds a Queues dispatcher. executor runs each op; abandoned
// is called for ops dropped during Shutdown.
func NewQueues(executor Executor, abandoned AbandonedFunc) *Queues {
	return &Queues{
		sessions:  make(map[string]*sessionQueue),
		executor:  executor,
		abandoned: abandoned,
	}
}

func (q *Queues) queueFor(sessionID string) *sessionQueue {
	q.mu.Lock()
	defer q.mu.Unlock()
	sq, ok := q.sessions[sessionID]
	if !ok {
		sq = &sessionQueue{}
		q.sessions[sessionID] = sq
	}
	return sq
}

// Enqueue appends op to sessionID's queue, starting the executor
// goroutine immediately if the queue was idle.
func (q *Queues) Enqueue(sessionID string, op QueuedOp) {
	sq := q.queueFor(sessionID)

	sq.mu.Lock()
	sq.pending = append(sq.pending, op)
	alreadyActive := sq.active
	if !alreadyActive {
		sq.active = true
		sq.done = make(chan struct{})
	}
	sq.mu.Unlock()

	if !alreadyActive {
		go q.run(sessionID, sq)
	}
}

func (q *Queues) run(sessionID string, sq *sessionQueue) {
	defer close(sq.done)
	for {
		sq.mu.Lock()
		if len(sq.pending) == 0 {
			sq.active = false
			sq.mu.Unlock()
			return
		}
		op := sq.pending[0]
		sq.pending = sq.pending[1:]
		ctx, cancel := context.WithCancel(context.Background())
		sq.cancel = cancel
		sq.mu.Unlock()

		q.executor(ctx, sessionID, op)

		sq.mu.Lock()
		sq.cancel = nil
		sq.mu.Unlock()
	}
}

// Cancel fires the cancellation token of sessionID's currently running op
// (if any) and drops queued ops of kinds Prompt/Reply; PollMerge is never
// dropped by cancel, since a pending merge poll isn't user-initiated work
// to abandon.
func (q *Queues) Cancel(sessionID string) {
	sq := q.queueFor(sessionID)

	sq.mu.Lock()
	defer sq.mu.Unlock()

	if sq.cancel != nil {
		sq.cancel()
	}

	kept := sq.pending[:0]
	for _, op := range sq.pending {
		if op.Kind == store.OpPrompt || op.Kind == store.OpReply {
			if q.abandoned != nil {
				q.abandoned(sessionID, op)
			}
			continue
		}
		kept = append(kept, op)
	}
	sq.pending = kept
}

// Shutdown cancels the running op, drains remaining queued ops as
// Abandoned, and waits up to shutdownJoinTimeout for the executor
// goroutine to exit (the deletion/shutdown lifecycle).
func (q *Queues) Shutdown(sessionID string) {
	q.mu.Lock()
	sq, ok := q.sessions[sessionID]
	if ok {
		delete(q.sessions, sessionID)
	}
	q.mu.Unlock()
	if !ok {
		return
	}

	sq.mu.Lock()
	if sq.cancel != nil {
		sq.cancel()
	}
	drained := sq.pending
	sq.pending = nil
	done := sq.done
	wasActive := sq.active
	sq.mu.Unlock()

	for _, op := range drained {
		if q.abandoned != nil {
			q.abandoned(sessionID, op)
		}
	}

	if wasActive && done != nil {
		select {
		case <-done:
		case <-time.After(shutdownJoinTimeout):
		}
	}
}

// PendingKinds reports the kinds of the ops waiting in sessionID's queue,
// in FIFO order (the running op is not included) — used by the snapshot
// assembler to derive PendingOpKinds.
func (q *Queues) PendingKinds(sessionID string) []store.OperationKind {
	sq := q.queueFor(sessionID)
	sq.mu.Lock()
	defer sq.mu.Unlock()
	kinds := make([]store.OperationKind, len(sq.pending))
	for i, op := range sq.pending {
		kinds[i] = op.Kind
	}
	return kinds
}

// Busy reports whether sessionID currently has a running (or about-to-run)
// operation.
func (q *Queues) Busy(sessionID string) bool {
	sq := q.queueFor(sessionID)
	sq.mu.Lock()
	defer sq.mu.Unlock()
	return sq.active
}
