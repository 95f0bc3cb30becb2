package ui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// FlashType represents the type of flash message
type FlashType int

const (
	FlashError FlashType = iota
	FlashWarning
	FlashInfo
	FlashSuccess
)

// DefaultFlashDuration is how long flash messages are shown before auto-dismissing
const DefaultFlashDuration = 5 * time.Second

// FlashMessage represents a temporary message shown in the footer
type FlashMessage struct {
	Text      string
	Type      FlashType
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the flash message should be dismissed
func (f *FlashMessage) IsExpired() bool {
	return time.Since(f.CreatedAt) >= f.Duration
}

// FlashTickMsg is sent periodically to check for expired flash messages
type FlashTickMsg struct{}

// FlashTick returns a command that sends a FlashTickMsg after a delay
func FlashTick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		return FlashTickMsg{}
	})
}

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// Footer represents the bottom footer bar with keybindings
type Footer struct {
	width          int
	bindings       []KeyBinding
	hasSession     bool // Whether a session is selected
	sidebarFocused bool // Whether sidebar has focus
	busy           bool // Whether the selected session has a running operation
	flashMessage   *FlashMessage
}

// NewFooter creates a new footer with the core session-lifecycle
// bindings, minus broadcast/search/bulk extras that are out of scope.
func NewFooter() *Footer {
	return &Footer{
		bindings: []KeyBinding{
			{Key: "tab", Desc: "switch pane"},
			{Key: "n", Desc: "new session"},
			{Key: "a", Desc: "add repo"},
			{Key: "f", Desc: "fork"},
			{Key: "p", Desc: "pull request"},
			{Key: "m", Desc: "merge local"},
			{Key: "d", Desc: "delete"},
			{Key: "q", Desc: "quit"},
			{Key: "?", Desc: "help"},
		},
	}
}

// SetContext updates the footer's context for conditional bindings.
func (f *Footer) SetContext(hasSession, sidebarFocused, busy bool) {
	f.hasSession = hasSession
	f.sidebarFocused = sidebarFocused
	f.busy = busy
}

func (f *Footer) SetWidth(width int) { f.width = width }

func (f *Footer) SetBindings(bindings []KeyBinding) { f.bindings = bindings }

func (f *Footer) SetFlash(text string, flashType FlashType) {
	f.flashMessage = &FlashMessage{Text: text, Type: flashType, CreatedAt: time.Now(), Duration: DefaultFlashDuration}
}

func (f *Footer) ClearFlash() { f.flashMessage = nil }

func (f *Footer) HasFlash() bool { return f.flashMessage != nil }

// ClearIfExpired clears the flash message if it has expired, reporting
// whether it did.
func (f *Footer) ClearIfExpired() bool {
	if f.flashMessage != nil && f.flashMessage.IsExpired() {
		f.flashMessage = nil
		return true
	}
	return false
}

func (f *Footer) flashStyle() lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1).Width(f.width).MaxHeight(1)
	switch f.flashMessage.Type {
	case FlashError:
		return base.Foreground(ColorTextInverse).Background(ColorError)
	case FlashWarning:
		return base.Foreground(ColorTextInverse).Background(ColorWarning)
	case FlashSuccess:
		return base.Foreground(ColorTextInverse).Background(ColorSuccess)
	default:
		return base.Foreground(ColorTextInverse).Background(ColorInfo)
	}
}

func (f *Footer) flashIcon() string {
	switch f.flashMessage.Type {
	case FlashError:
		return "✕ "
	case FlashWarning:
		return "⚠ "
	case FlashSuccess:
		return "✓ "
	default:
		return "ℹ "
	}
}

func footerSeparator() string {
	return "  " + lipgloss.NewStyle().Foreground(ColorBorder).Render("|") + "  "
}

// View renders the footer.
func (f *Footer) View() string {
	if f.flashMessage != nil {
		return f.flashStyle().Render(f.flashIcon() + f.flashMessage.Text)
	}

	var parts []string
	if !f.sidebarFocused && f.hasSession {
		chatBindings := []KeyBinding{{Key: "enter", Desc: "send"}, {Key: "tab", Desc: "switch pane"}, {Key: "pgup/dn", Desc: "scroll"}}
		if f.busy {
			chatBindings = append([]KeyBinding{{Key: "esc", Desc: "cancel"}}, chatBindings...)
		}
		for _, b := range chatBindings {
			parts = append(parts, FooterKeyStyle.Render(b.Key)+FooterDescStyle.Render(": "+b.Desc))
		}
	} else {
		for _, b := range f.bindings {
			if b.Key == "?" {
				continue
			}
			if b.Key == "tab" && !f.hasSession {
				continue
			}
			if !f.sidebarFocused && (b.Key == "n" || b.Key == "a" || b.Key == "f" || b.Key == "p" || b.Key == "m" || b.Key == "d" || b.Key == "q") {
				continue
			}
			if !f.hasSession && (b.Key == "f" || b.Key == "p" || b.Key == "m" || b.Key == "d") {
				continue
			}
			parts = append(parts, FooterKeyStyle.Render(b.Key)+FooterDescStyle.Render(": "+b.Desc))
		}
		if f.sidebarFocused {
			parts = append(parts, FooterKeyStyle.Render("?")+FooterDescStyle.Render(": help"))
		}
	}

	content := strings.Join(parts, footerSeparator())
	return FooterStyle.Width(f.width).MaxHeight(1).Render(content)
}
