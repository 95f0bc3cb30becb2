// Package gemini adapts the Gemini CLI to the backend.Backend contract.
// The original repo has no Gemini integration to ground against directly,
// so this adapter generalizes the Claude adapter's subprocess-supervision
// shape (internal/backend/claude) onto Gemini CLI's own JSON streaming
// flags, which mirror Claude's --output-format stream-json closely enough
// that the same Supervisor plumbing applies unchanged.
package gemini

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

// Adapter drives `gemini --output-format json --approval-mode auto_edit`.
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

// New returns an uninitialized Gemini adapter.
func New() backend.Backend {
	return &Adapter{
		events: make(chan backend.ChunkEvent, 64),
		quests: make(chan backend.PermissionRequest, 1),
	}
}

func init() { backend.RegisterFactory(backend.KindGemini, New) }

func (a *Adapter) Events() <-chan backend.ChunkEvent           { return a.events }
func (a *Adapter) Questions() <-chan backend.PermissionRequest { return a.quests }

func (a *Adapter) Start(ctx context.Context, req backend.StartRequest) error {
	a.mu.Lock()
	a.sessionID = req.SessionID
	a.allowedTools = req.AllowedTools
	a.log = logger.ComponentLogger("backend.gemini").With("sessionID", req.SessionID)
	if a.sup == nil {
		a.sup = backend.NewSupervisor("gemini", req.WorkingDir, a.buildArgs, backend.Callbacks{
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
			return fmt.Errorf("backend/gemini: start: %w", err)
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

	args := []string{"--output-format", "json", "--approval-mode", "auto_edit"}
	if a.resumed {
		args = append(args, "--resume", a.sessionID)
	} else {
		args = append(args, "--session-id", a.sessionID)
	}
	for _, tool := range a.allowedTools {
		args = append(args, "--allowed-tools", tool)
	}
	return args
}

func (a *Adapter) sendPrompt(prompt string) error {
	payload := map[string]string{"prompt": prompt}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("backend/gemini: marshal prompt: %w", err)
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
	a.log.Warn("gemini process exited", "error", err, "stderr", stderrContent)
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
