package codex

import (
	"encoding/json"
	"log/slog"

	"github.com/zhubert/plural-orchestrator/internal/backend"
)

// item mirrors `codex exec --json`'s event schema: one JSON object per
// line, keyed by "msg.type" in upstream codex but flattened here to the
// fields the adapter needs.
type item struct {
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	Command   string `json:"command,omitempty"`
	CallID    string `json:"call_id,omitempty"`
	Model     string `json:"model,omitempty"`
	TokenUsage *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"token_usage,omitempty"`
	Error string `json:"error,omitempty"`
}

func parseStreamLine(line string, log *slog.Logger) []backend.ChunkEvent {
	var it item
	if err := json.Unmarshal([]byte(line), &it); err != nil {
		log.Warn("failed to parse codex stream line", "error", err)
		return nil
	}

	switch it.Type {
	case "agent_message", "agent_message_delta":
		if it.Text == "" {
			return nil
		}
		return []backend.ChunkEvent{{Kind: backend.ChunkText, Text: it.Text}}
	case "exec_command_begin":
		return []backend.ChunkEvent{{Kind: backend.ChunkToolUse, ToolName: "Bash", ToolInput: it.Command, ToolUseID: it.CallID}}
	case "exec_command_end":
		return []backend.ChunkEvent{{Kind: backend.ChunkToolResult, ToolUseID: it.CallID}}
	case "error":
		return []backend.ChunkEvent{{Kind: backend.ChunkError, Text: it.Error}}
	case "task_complete":
		var chunks []backend.ChunkEvent
		if it.TokenUsage != nil {
			chunks = append(chunks, backend.ChunkEvent{Kind: backend.ChunkUsage, Usage: &backend.Usage{
				Model:        it.Model,
				InputTokens:  int64(it.TokenUsage.InputTokens),
				OutputTokens: int64(it.TokenUsage.OutputTokens),
			}})
		}
		chunks = append(chunks, backend.ChunkEvent{Kind: backend.ChunkDone, Text: it.Text})
		return chunks
	default:
		return nil
	}
}
