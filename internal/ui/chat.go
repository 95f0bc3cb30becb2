package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/plural-orchestrator/internal/manager"
)

// Chat is the main conversation panel: the session's streaming transcript
// in a scrollable viewport over a textarea prompt input, generalized from
// the original Chat component to render a manager.SessionSnapshot
// directly instead of a locally held claude.Message history.
type Chat struct {
	width, height int
	focused       bool

	viewport viewport.Model
	input    textarea.Model

	session *manager.SessionSnapshot
}

func NewChat() *Chat {
	vp := viewport.New()

	ti := textarea.New()
	ti.Placeholder = "Type your message..."
	ti.CharLimit = 0
	ti.SetHeight(TextareaHeight)
	ti.ShowLineNumbers = false
	ti.Prompt = ""

	return &Chat{viewport: vp, input: ti}
}

func (c *Chat) SetSize(width, height int) {
	c.width, c.height = width, height

	innerWidth := width - InputPaddingWidth
	viewportHeight := height - InputTotalHeight - BorderSize
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	c.viewport.SetWidth(innerWidth)
	c.viewport.SetHeight(viewportHeight)
	c.input.SetWidth(innerWidth)
}

func (c *Chat) SetFocused(focused bool) {
	c.focused = focused
	if focused {
		c.input.Focus()
	} else {
		c.input.Blur()
	}
}

func (c *Chat) IsFocused() bool { return c.focused }

// SetSession replaces the snapshot the chat pane is currently rendering
// and re-renders its transcript into the viewport.
func (c *Chat) SetSession(snap *manager.SessionSnapshot) {
	c.session = snap
	c.updateContent()
}

func (c *Chat) GetInput() string { return strings.TrimSpace(c.input.Value()) }

func (c *Chat) ClearInput() { c.input.Reset() }

func (c *Chat) SetInput(value string) { c.input.SetValue(value) }

func (c *Chat) renderToolUse() string {
	if c.session == nil || len(c.session.ToolUse.Items) == 0 {
		return ""
	}
	var lines []string
	for _, item := range c.session.ToolUse.Items {
		mark := "…"
		if item.Done {
			mark = "✓"
		}
		detail := item.Detail
		if detail != "" {
			detail = ": " + detail
		}
		lines = append(lines, fmt.Sprintf("%s %s%s", mark, item.ToolName, detail))
	}
	return lipgloss.NewStyle().Foreground(ColorTextMuted).Render(strings.Join(lines, "\n"))
}

// updateContent re-renders the transcript into the viewport, scrolling to
// the bottom so new streamed output is always visible.
func (c *Chat) updateContent() {
	if c.session == nil {
		c.viewport.SetContent(renderNoSessionMessage())
		return
	}

	wrapWidth := c.viewport.Width()
	if wrapWidth < TodoListMinWrapWidth {
		wrapWidth = DefaultWrapWidth
	}

	body := renderMarkdown(c.session.OutputBuffer, wrapWidth)
	if c.session.Busy {
		status := StatusLoadingStyle.Render(fmt.Sprintf("working (%s elapsed)…", c.session.ElapsedWait.Round(1_000_000_000)))
		if tools := c.renderToolUse(); tools != "" {
			status = tools + "\n" + status
		}
		if body != "" {
			body += "\n\n"
		}
		body += status
	}

	c.viewport.SetContent(body)
	c.viewport.GotoBottom()
}

// Update routes key input to the input textarea while focused, and
// scroll/navigation keys to the viewport otherwise.
func (c *Chat) Update(msg tea.Msg) (*Chat, tea.Cmd) {
	var cmd tea.Cmd
	if c.focused {
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}
	c.viewport, cmd = c.viewport.Update(msg)
	return c, cmd
}

// View renders the chat panel: transcript viewport over the prompt input.
func (c *Chat) View() string {
	style := PanelStyle
	if c.focused {
		style = PanelFocusedStyle
	}

	inputStyle := ChatInputStyle
	if c.focused {
		inputStyle = ChatInputFocusedStyle
	}
	prompt := inputStyle.Width(c.width - BorderSize - InputPaddingWidth).Render(c.input.View())

	return style.Width(c.width - BorderSize).Height(c.height - BorderSize).
		Render(c.viewport.View() + "\n" + prompt)
}

// StatusLine summarizes a session for the header (branch, status, PR state).
func StatusLine(snap manager.SessionSnapshot) string {
	parts := []string{snap.BranchName, string(snap.Status)}
	if snap.PrURL != nil {
		parts = append(parts, *snap.PrURL)
	}
	if snap.PrState != nil {
		parts = append(parts, *snap.PrState)
	}
	return strings.Join(parts, " · ")
}
