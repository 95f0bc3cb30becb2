package manager

import (
	"time"

	"github.com/zhubert/plural-orchestrator/internal/store"
)

// sessionLiveState holds everything about a session that lives only in
// memory between reducer ticks: the streaming output buffer, the current
// turn's tool-use rollup, and when the running op started. None of this
// is persisted; a snapshot is a pure function of (Session row, streaming
// output buffer, pending op kinds).
type sessionLiveState struct {
	outputBuffer   []byte
	toolUse        ToolUseRollup
	runningOpStart time.Time
	hasRunningOp   bool
}

const maxOutputBufferBytes = 1 << 20 // 1 MiB of retained transcript per session

func (s *sessionLiveState) appendOutput(chunk string) {
	s.outputBuffer = append(s.outputBuffer, chunk...)
	if len(s.outputBuffer) > maxOutputBufferBytes {
		s.outputBuffer = s.outputBuffer[len(s.outputBuffer)-maxOutputBufferBytes:]
	}
}

func (s *sessionLiveState) recordToolUse(item ToolUseItem) {
	s.toolUse.Items = append([]ToolUseItem{item}, s.toolUse.Items...)
	if len(s.toolUse.Items) > 20 {
		s.toolUse.Items = s.toolUse.Items[:20]
	}
}

func (s *sessionLiveState) markToolDone(toolUseID string) {
	for i := range s.toolUse.Items {
		if s.toolUse.Items[i].ToolUseID == toolUseID {
			s.toolUse.Items[i].Done = true
			return
		}
	}
}

// assembleSnapshot never touches the store or the worker queue directly,
// taking the already-fetched row and live state as plain arguments.
func assembleSnapshot(sess store.Session, live *sessionLiveState, pendingKinds []store.OperationKind) SessionSnapshot {
	snap := SessionSnapshot{
		Session:        sess,
		PendingOpKinds: pendingKinds,
		Busy:           live.hasRunningOp,
	}
	if live != nil {
		snap.OutputBuffer = string(live.outputBuffer)
		snap.ToolUse = live.toolUse
		if live.hasRunningOp {
			snap.ElapsedWait = time.Since(live.runningOpStart)
		}
	}
	return snap
}
