// Package eventbus implements a single-consumer event bus: every
// workflow and worker-queue executor synthesizes typed events instead
// of mutating session state directly, and one reducer goroutine applies
// them in receipt order. Generalized from the original single tea.Msg
// dispatch loop idiom — here an app-level Event switch instead of a
// Bubble Tea message switch.
package eventbus

import "context"

// Kind discriminates an Event's payload, matching the event
// list exactly.
type Kind string

const (
	SessionCreated     Kind = "SessionCreated"
	SessionUpdated     Kind = "SessionUpdated"
	SessionDeleted     Kind = "SessionDeleted"
	StatusChanged      Kind = "StatusChanged"
	OutputAppended     Kind = "OutputAppended"
	UsageRecorded      Kind = "UsageRecorded"
	OperationStarted   Kind = "OperationStarted"
	OperationFinished  Kind = "OperationFinished"
	PrStateChanged     Kind = "PrStateChanged"
	RefreshSessions    Kind = "RefreshSessions"
	Tick               Kind = "Tick"
)

// Event is the single envelope type carried on the bus. Only the fields
// relevant to Kind are populated; this mirrors the original tagged-union-
// via-struct Bubble Tea message style rather than an interface{} per kind,
// which would force type switches with unchecked casts at every consumer.
type Event struct {
	Kind      Kind
	SessionID string

	// SessionUpdated
	Patch any

	// StatusChanged
	OldStatus string
	NewStatus string

	// OutputAppended
	Chunk string

	// UsageRecorded
	Model        string
	InputTokens  int64
	OutputTokens int64

	// OperationStarted / OperationFinished
	OperationID string
	Result      error

	// PrStateChanged
	PrState string

	// RefreshSessions
	ProjectID string
}

// Bus is a buffered multi-producer-single-consumer channel. Any number of
// worker-queue executors and workflow functions may call Publish
// concurrently; exactly one reducer goroutine should range over C().
type Bus struct {
	ch chan Event
}

// New creates a Bus with the given buffer size. A generous buffer absorbs
// bursts (e.g. many OutputAppended chunks from a fast-streaming backend)
// without blocking the publishing executor goroutine.
func New(buffer int) *Bus {
	return &Bus{ch: make(chan Event, buffer)}
}

// Publish enqueues ev, blocking only if the buffer is full. Publish never
// drops events; backpressure is intentional — a slow reducer should stall
// producers rather than silently lose state transitions.
func (b *Bus) Publish(ev Event) {
	b.ch <- ev
}

// PublishCtx enqueues ev unless ctx is canceled first, so a shutting-down
// executor doesn't block forever on a bus nobody is draining anymore.
func (b *Bus) PublishCtx(ctx context.Context, ev Event) {
	select {
	case b.ch <- ev:
	case <-ctx.Done():
	}
}

// C returns the receive-only channel the single reducer goroutine
// consumes from.
func (b *Bus) C() <-chan Event {
	return b.ch
}

// Close closes the underlying channel. Only safe to call once every
// publisher has stopped.
func (b *Bus) Close() {
	close(b.ch)
}
