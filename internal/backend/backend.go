// Package backend defines the adapter contract between the session
// manager and the three supported coding-agent CLIs (the
// "Agent backend interface"). Each concrete adapter lives in its own
// subpackage (claude, gemini, codex) and is selected at session-create
// time by AgentKind via the Factory map built in factory.go.
//
// Named backend rather than agent because an unrelated autonomous
// GitHub-issue-picking daemon already claims the internal/agent name —
// see DESIGN.md for that package's disposition.
package backend

import "context"

// StartRequest carries everything an adapter needs to launch or resume
// a conversation turn.
type StartRequest struct {
	SessionID      string
	WorkingDir     string
	Prompt         string
	AllowedTools   []string
	PermissionMode string
	// ForkFromSessionID, when set, asks the backend to resume the named
	// prior conversation instead of starting fresh.
	ForkFromSessionID string
}

// ChunkKind classifies a streamed ChunkEvent.
type ChunkKind string

const (
	ChunkText        ChunkKind = "text"
	ChunkToolUse     ChunkKind = "tool_use"
	ChunkToolResult  ChunkKind = "tool_result"
	ChunkUsage       ChunkKind = "usage"
	ChunkDone        ChunkKind = "done"
	ChunkError       ChunkKind = "error"
	ChunkPermissionQ ChunkKind = "permission_question"
)

// Usage is a single accounting record for one backend turn, destined for
// store.RecordUsage.
type Usage struct {
	Model        string
	InputTokens  int64
	OutputTokens int64
}

// ChunkEvent is one unit of an agent's streamed output, a backend-agnostic
// shape every adapter (Claude, Gemini, Codex) can emit uniformly.
type ChunkEvent struct {
	Kind      ChunkKind
	Text      string
	ToolName  string
	ToolInput string
	ToolUseID string
	Usage     *Usage
	Err       error
}

// PermissionRequest is raised on the Questions channel when the backend
// needs the user to approve a tool invocation (write or shell command)
// under PermissionMode "suggest".
type PermissionRequest struct {
	ToolName string
	Detail   string
	Respond  func(approved bool)
}

// Backend is the trait-dispatched contract for an agent adapter: one
// concrete type per agent kind, selected once at session creation and
// held for the session's lifetime.
type Backend interface {
	// Start launches (or resumes) the backend process and begins a turn
	// with req.Prompt. Events stream out over Events(); Start returns as
	// soon as the turn is dispatched, not when it completes.
	Start(ctx context.Context, req StartRequest) error

	// Events returns the channel of streamed output for the current and
	// future turns. A turn's output ends with ChunkDone, or with
	// ChunkError when the turn fails; Finalize does not close the channel.
	Events() <-chan ChunkEvent

	// Questions returns the channel of interactive permission prompts
	// raised while PermissionMode is "suggest".
	Questions() <-chan PermissionRequest

	// Cancel interrupts the in-flight turn, if any, without tearing down
	// the underlying process.
	Cancel()

	// Finalize stops the backend process and releases its resources.
	// Safe to call multiple times.
	Finalize() error
}

// Factory constructs a fresh Backend instance for one session.
type Factory func() Backend
