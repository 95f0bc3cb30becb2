package gemini

import (
	"encoding/json"
	"log/slog"

	"github.com/zhubert/plural-orchestrator/internal/backend"
)

// event mirrors Gemini CLI's --output-format json event schema, which
// (like Claude's) emits one JSON object per line distinguished by "type".
type event struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ToolName string `json:"toolName,omitempty"`
	ToolArgs string `json:"toolArgs,omitempty"`
	CallID   string `json:"callId,omitempty"`
	Model    string `json:"model,omitempty"`
	Stats    *struct {
		PromptTokens     int `json:"promptTokens"`
		CompletionTokens int `json:"completionTokens"`
	} `json:"stats,omitempty"`
	Error string `json:"error,omitempty"`
}

func parseStreamLine(line string, log *slog.Logger) []backend.ChunkEvent {
	var e event
	if err := json.Unmarshal([]byte(line), &e); err != nil {
		log.Warn("failed to parse gemini stream line", "error", err)
		return nil
	}

	switch e.Type {
	case "content":
		if e.Text == "" {
			return nil
		}
		return []backend.ChunkEvent{{Kind: backend.ChunkText, Text: e.Text}}
	case "tool_call":
		return []backend.ChunkEvent{{Kind: backend.ChunkToolUse, ToolName: e.ToolName, ToolInput: e.ToolArgs, ToolUseID: e.CallID}}
	case "tool_result":
		return []backend.ChunkEvent{{Kind: backend.ChunkToolResult, ToolUseID: e.CallID}}
	case "error":
		return []backend.ChunkEvent{{Kind: backend.ChunkError, Text: e.Error}}
	case "turn_complete":
		var chunks []backend.ChunkEvent
		if e.Stats != nil {
			chunks = append(chunks, backend.ChunkEvent{Kind: backend.ChunkUsage, Usage: &backend.Usage{
				Model:        e.Model,
				InputTokens:  int64(e.Stats.PromptTokens),
				OutputTokens: int64(e.Stats.CompletionTokens),
			}})
		}
		chunks = append(chunks, backend.ChunkEvent{Kind: backend.ChunkDone, Text: e.Text})
		return chunks
	default:
		return nil
	}
}
