package gemini

import (
	"log/slog"
	"testing"

	"github.com/zhubert/plural-orchestrator/internal/backend"
)

func TestParseStreamLineContent(t *testing.T) {
	chunks := parseStreamLine(`{"type":"content","text":"hi"}`, slog.Default())
	if len(chunks) != 1 || chunks[0].Kind != backend.ChunkText || chunks[0].Text != "hi" {
		t.Fatalf("parseStreamLine() = %+v", chunks)
	}
}

func TestParseStreamLineTurnComplete(t *testing.T) {
	chunks := parseStreamLine(`{"type":"turn_complete","stats":{"promptTokens":3,"completionTokens":7},"model":"gemini-2.5-pro"}`, slog.Default())
	if len(chunks) != 2 {
		t.Fatalf("parseStreamLine() = %+v, want 2 chunks", chunks)
	}
	if chunks[0].Kind != backend.ChunkUsage || chunks[0].Usage.InputTokens != 3 || chunks[0].Usage.OutputTokens != 7 {
		t.Errorf("usage chunk = %+v", chunks[0])
	}
	if chunks[1].Kind != backend.ChunkDone {
		t.Errorf("expected ChunkDone second, got %+v", chunks[1])
	}
}
