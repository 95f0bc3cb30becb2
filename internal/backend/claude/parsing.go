package claude

import (
	"encoding/json"
	"log/slog"

	"github.com/zhubert/plural-orchestrator/internal/backend"
)

// streamMessage mirrors the subset of Claude CLI's stream-json schema the
// adapter cares about, trimmed from the original much larger
// streamMessage (which also tracks todo lists, subagent models, and
// plugin metadata the orchestrator's backend contract doesn't surface).
type streamMessage struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
	Message struct {
		Model   string `json:"model"`
		Content []struct {
			Type      string          `json:"type"`
			Text      string          `json:"text,omitempty"`
			Name      string          `json:"name,omitempty"`
			Input     json.RawMessage `json:"input,omitempty"`
			ToolUseID string          `json:"tool_use_id,omitempty"`
		} `json:"content"`
		Usage *usage `json:"usage,omitempty"`
	} `json:"message"`
	Result  string `json:"result,omitempty"`
	IsError bool   `json:"is_error,omitempty"`
	Usage   *usage `json:"usage,omitempty"`
}

type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// parseStreamLine turns one NDJSON line from Claude's stdout into zero or
// more backend.ChunkEvent values.
func parseStreamLine(line string, log *slog.Logger) []backend.ChunkEvent {
	var msg streamMessage
	if err := json.Unmarshal([]byte(line), &msg); err != nil {
		log.Warn("failed to parse claude stream line", "error", err)
		return nil
	}

	var chunks []backend.ChunkEvent
	switch msg.Type {
	case "assistant":
		for _, c := range msg.Message.Content {
			switch c.Type {
			case "text":
				if c.Text != "" {
					chunks = append(chunks, backend.ChunkEvent{Kind: backend.ChunkText, Text: c.Text})
				}
			case "tool_use":
				chunks = append(chunks, backend.ChunkEvent{
					Kind:      backend.ChunkToolUse,
					ToolName:  c.Name,
					ToolInput: string(c.Input),
					ToolUseID: c.ToolUseID,
				})
			}
		}
	case "user":
		for _, c := range msg.Message.Content {
			if c.Type == "tool_result" {
				chunks = append(chunks, backend.ChunkEvent{Kind: backend.ChunkToolResult, ToolUseID: c.ToolUseID})
			}
		}
	case "result":
		if msg.Usage != nil {
			chunks = append(chunks, backend.ChunkEvent{
				Kind: backend.ChunkUsage,
				Usage: &backend.Usage{
					Model:        msg.Message.Model,
					InputTokens:  int64(msg.Usage.InputTokens),
					OutputTokens: int64(msg.Usage.OutputTokens),
				},
			})
		}
		if msg.IsError {
			chunks = append(chunks, backend.ChunkEvent{Kind: backend.ChunkError, Text: msg.Result})
		} else {
			chunks = append(chunks, backend.ChunkEvent{Kind: backend.ChunkDone, Text: msg.Result})
		}
	}
	return chunks
}
