// Package claude adapts the Claude Code CLI to the backend.Backend
// contract, generalized from the original internal/claude.Runner: the
// same stream-json subprocess protocol and restart-on-crash supervision,
// trimmed to the Backend interface's shape.
package claude

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

// Adapter implements backend.Backend by driving `claude --print
// --output-format stream-json --input-format stream-json`.
type Adapter struct {
	mu             sync.Mutex
	sessionID      string
	sessionStarted bool
	forkFrom       string
	allowedTools   []string

	sup    *backend.Supervisor
	events chan backend.ChunkEvent
	quests chan backend.PermissionRequest
	log    *slog.Logger
}

// New returns an uninitialized Claude adapter; Start performs the first
// launch.
func New() backend.Backend {
	return &Adapter{
		events: make(chan backend.ChunkEvent, 64),
		quests: make(chan backend.PermissionRequest, 1),
	}
}

func init() { backend.RegisterFactory(backend.KindClaude, New) }

func (a *Adapter) Events() <-chan backend.ChunkEvent          { return a.events }
func (a *Adapter) Questions() <-chan backend.PermissionRequest { return a.quests }

// Start launches the subprocess on first call and resumes it (via
// --resume) on every subsequent call for the same session.
func (a *Adapter) Start(ctx context.Context, req backend.StartRequest) error {
	a.mu.Lock()
	a.sessionID = req.SessionID
	a.forkFrom = req.ForkFromSessionID
	a.allowedTools = allowedToolsFor(req.PermissionMode, req.AllowedTools)
	a.log = logger.ComponentLogger("backend.claude").With("sessionID", req.SessionID)

	if a.sup == nil {
		a.sup = backend.NewSupervisor("claude", req.WorkingDir, a.buildArgs, backend.Callbacks{
			OnLine:  a.onLine,
			OnExit:  a.onExit,
			OnFatal: a.onFatal,
		}, a.log)
	}
	started := a.sessionStarted
	a.mu.Unlock()

	if !a.sup.IsRunning() {
		a.sup.ResetInterrupted()
		if err := a.sup.Start(); err != nil {
			return fmt.Errorf("backend/claude: start: %w", err)
		}
	}

	if err := a.sendPrompt(req.Prompt); err != nil {
		return err
	}

	a.mu.Lock()
	if !started {
		a.sessionStarted = true
	}
	a.mu.Unlock()
	return nil
}

func (a *Adapter) buildArgs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	args := []string{"--print", "--output-format", "stream-json", "--input-format", "stream-json", "--verbose"}
	switch {
	case a.sessionStarted:
		args = append(args, "--resume", a.sessionID)
	case a.forkFrom != "":
		args = append(args, "--resume", a.forkFrom, "--fork-session", "--session-id", a.sessionID)
	default:
		args = append(args, "--session-id", a.sessionID)
	}
	for _, tool := range a.allowedTools {
		args = append(args, "--allowedTools", tool)
	}
	return args
}

// allowedToolsFor narrows the tool allowlist for the read-only
// PermissionMode to Read, Glob, Grep and the "Bash(ls"/"Bash(cat" entries
// of the configured set; every other mode gets the configured set
// unchanged.
func allowedToolsFor(mode string, configured []string) []string {
	if mode != "read-only" {
		return configured
	}
	readOnly := make([]string, 0, len(configured))
	for _, t := range configured {
		if t == "Read" || t == "Glob" || t == "Grep" || strings.HasPrefix(t, "Bash(ls") || strings.HasPrefix(t, "Bash(cat") {
			readOnly = append(readOnly, t)
		}
	}
	return readOnly
}

func (a *Adapter) sendPrompt(prompt string) error {
	payload := struct {
		Type    string `json:"type"`
		Message struct {
			Role    string `json:"role"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"message"`
	}{Type: "user"}
	payload.Message.Role = "user"
	payload.Message.Content = []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{{Type: "text", Text: prompt}}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("backend/claude: marshal prompt: %w", err)
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
	a.mu.Lock()
	interrupted := false
	a.mu.Unlock()
	if interrupted {
		return false
	}
	a.log.Warn("claude process exited", "error", err, "stderr", stderrContent)
	return true
}

func (a *Adapter) onFatal(err error) {
	a.events <- backend.ChunkEvent{Kind: backend.ChunkError, Err: err}
}

// Cancel interrupts the in-flight turn without tearing down the process.
func (a *Adapter) Cancel() {
	if a.sup != nil {
		a.sup.Interrupt()
	}
}

// Finalize stops the subprocess; the event channel is left open.
func (a *Adapter) Finalize() error {
	if a.sup != nil {
		a.sup.Stop()
	}
	return nil
}
