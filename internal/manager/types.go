// Package manager is the session manager core: the status state machine,
// per-session worker queues, the event bus reducer, session lifecycle
// workflows, snapshot assembly, and the startup recovery reconciler. It
// is the one package that ties internal/store, internal/worktree,
// internal/backend, and internal/prdriver together behind the session
// lifecycle.
package manager

import (
	"time"

	"github.com/zhubert/plural-orchestrator/internal/store"
)

// ToolUseItem is one tool invocation surfaced in a session's live
// transcript, generalized from the original ToolUseItemState to the
// normalized ChunkEvent tool-use summary so it works across all three
// AgentKinds instead of only Claude's tool names.
type ToolUseItem struct {
	ToolName  string
	Detail    string
	ToolUseID string
	Done      bool
}

// ToolUseRollup is the current turn's running list of tool invocations,
// newest first, for a compact "doing N things" status line.
type ToolUseRollup struct {
	Items []ToolUseItem
}

// SessionSnapshot is the pure, UI-facing projection of (Session row,
// streaming output buffer, pending op kinds). The UI never reads the
// store directly — it reads snapshots assembled here.
type SessionSnapshot struct {
	store.Session

	Busy           bool
	PendingOpKinds []store.OperationKind
	OutputBuffer   string
	ElapsedWait    time.Duration
	ToolUse        ToolUseRollup
}

// ProjectUsage totals a project's recorded usage across all its sessions,
// for the sidebar's running cost readout.
type ProjectUsage struct {
	InputTokens  int64
	OutputTokens int64
}
