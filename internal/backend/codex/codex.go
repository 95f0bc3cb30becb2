// Package codex adapts the OpenAI Codex CLI to the backend.Backend
// contract. Like internal/backend/gemini, there is no prior direct
// Codex integration to ground against, so this generalizes the same
// Supervisor-backed subprocess pattern onto `codex exec`'s JSONL event
// stream (codex's `--json` mode).
package codex

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/zhubert/plural-orchestrator/internal/backend"
	"github.com/zhubert/plural-orchestrator/internal/logger"
)

// Adapter drives `codex exec --json --skip-git-repo-check`.
type Adapter struct {
	mu           sync.Mutex
	sessionID    string
	resumed      bool
	allowedTools []string

	sup    *backend.Supervisor
	events chan backend.ChunkEvent
	quests chan backend.PermissionRequest
	log    *slog.Logger
}

// New returns an uninitialized Codex adapter.
func New() backend.Backend {
	return &Adapter{
		events: make(chan backend.ChunkEvent, 64),
		quests: make(chan backend.PermissionRequest, 1),
	}
}

func init() { backend.RegisterFactory(backend.KindCodex, New) }

func (a *Adapter) Events() <-chan backend.ChunkEvent           { return a.events }
func (a *Adapter) Questions() <-chan backend.PermissionRequest { return a.quests }

func (a *Adapter) Start(ctx context.Context, req backend.StartRequest) error {
	a.mu.Lock()
	a.sessionID = req.SessionID
	a.allowedTools = req.AllowedTools
	a.log = logger.ComponentLogger("backend.codex").With("sessionID", req.SessionID)
	if a.sup == nil {
		a.sup = backend.NewSupervisor("codex", req.WorkingDir, a.buildArgs, backend.Callbacks{
			OnLine:  a.onLine,
			OnExit:  a.onExit,
			OnFatal: a.onFatal,
		}, a.log)
	}
	resumed := a.resumed
	a.mu.Unlock()

	if !a.sup.IsRunning() {
		a.sup.ResetInterrupted()
		if err := a.sup.Start(); err != nil {
			return fmt.Errorf("backend/codex: start: %w", err)
		}
	}

	if err := a.sendPrompt(req.Prompt); err != nil {
		return err
	}

	a.mu.Lock()
	if !resumed {
		a.resumed = true
	}
	a.mu.Unlock()
	return nil
}

func (a *Adapter) buildArgs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	args := []string{"exec", "--json", "--skip-git-repo-check"}
	if a.resumed {
		args = append(args, "resume", a.sessionID)
	} else {
		args = append(args, "--session-id", a.sessionID)
	}
	for _, tool := range a.allowedTools {
		args = append(args, "--allow-tool", tool)
	}
	return args
}

func (a *Adapter) sendPrompt(prompt string) error {
	payload := map[string]string{"input": prompt}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("backend/codex: marshal prompt: %w", err)
	}
	return a.sup.WriteMessage(data)
}

func (a *Adapter) onLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	for _, chunk := range parseStreamLine(line, a.log) {
		a.events <- chunk
	}
}

func (a *Adapter) onExit(err error, stderrContent string) bool {
	a.log.Warn("codex process exited", "error", err, "stderr", stderrContent)
	return true
}

func (a *Adapter) onFatal(err error) {
	a.events <- backend.ChunkEvent{Kind: backend.ChunkError, Err: err}
}

func (a *Adapter) Cancel() {
	if a.sup != nil {
		a.sup.Interrupt()
	}
}

func (a *Adapter) Finalize() error {
	if a.sup != nil {
		a.sup.Stop()
	}
	return nil
}
