package ui

import (
	"strings"
	"testing"

	"github.com/zhubert/plural-orchestrator/internal/manager"
	"github.com/zhubert/plural-orchestrator/internal/store"
)

func TestChatInputRoundTrip(t *testing.T) {
	c := NewChat()
	c.SetInput("  hello there  ")
	if got := c.GetInput(); got != "hello there" {
		t.Errorf("GetInput() = %q, want trimmed hello there", got)
	}

	c.ClearInput()
	if got := c.GetInput(); got != "" {
		t.Errorf("GetInput() = %q after ClearInput, want empty", got)
	}
}

func TestChatSetFocusedTracksState(t *testing.T) {
	c := NewChat()
	if c.IsFocused() {
		t.Fatal("IsFocused() = true on a new chat, want false")
	}

	c.SetFocused(true)
	if !c.IsFocused() {
		t.Error("IsFocused() = false after SetFocused(true)")
	}

	c.SetFocused(false)
	if c.IsFocused() {
		t.Error("IsFocused() = true after SetFocused(false)")
	}
}

func TestChatSetSessionUpdatesRenderedContent(t *testing.T) {
	c := NewChat()
	c.SetSize(80, 24)

	snap := &manager.SessionSnapshot{
		Session: store.Session{BranchName: "plural/fix"},
		OutputBuffer: "hello from the agent",
	}
	c.SetSession(snap)

	if !strings.Contains(c.viewport.View(), "hello from the agent") {
		t.Errorf("viewport content = %q, want it to include the session's output", c.viewport.View())
	}
}

func TestChatRenderToolUseShowsDoneMarker(t *testing.T) {
	c := NewChat()
	c.session = &manager.SessionSnapshot{
		ToolUse: manager.ToolUseRollup{Items: []manager.ToolUseItem{
			{ToolName: "Read", Detail: "main.go", Done: true},
			{ToolName: "Bash", Detail: "go test ./...", Done: false},
		}},
	}

	got := c.renderToolUse()
	if !strings.Contains(got, "✓ Read: main.go") {
		t.Errorf("renderToolUse() = %q, want a done marker for Read", got)
	}
	if !strings.Contains(got, "Bash: go test ./...") {
		t.Errorf("renderToolUse() = %q, want the Bash entry", got)
	}
}

func TestChatRenderToolUseEmptyWithNoSession(t *testing.T) {
	c := NewChat()
	if got := c.renderToolUse(); got != "" {
		t.Errorf("renderToolUse() = %q, want empty with no session set", got)
	}
}

func TestStatusLineJoinsBranchStatusAndPR(t *testing.T) {
	prURL := "https://example.com/pr/1"
	prState := "open"
	snap := manager.SessionSnapshot{Session: store.Session{
		BranchName: "plural/fix", Status: store.StatusReview, PrURL: &prURL, PrState: &prState,
	}}

	got := StatusLine(snap)
	want := "plural/fix · Review · https://example.com/pr/1 · open"
	if got != want {
		t.Errorf("StatusLine() = %q, want %q", got, want)
	}
}

func TestStatusLineOmitsAbsentPRFields(t *testing.T) {
	snap := manager.SessionSnapshot{Session: store.Session{BranchName: "plural/fix", Status: store.StatusNew}}
	if got := StatusLine(snap); got != "plural/fix · New" {
		t.Errorf("StatusLine() = %q, want plural/fix · New", got)
	}
}
