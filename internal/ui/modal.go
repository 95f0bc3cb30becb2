// Package ui provides the modal dialog component: a small set of focused
// popups for the operations the session manager core actually exposes.
// Broadcast groups, bulk actions, plugin/marketplace browsing, issue
// import, workspaces, and container builds are out of scope here — see
// DESIGN.md for why each was dropped instead of adapted.
package ui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/plural-orchestrator/internal/store"
)

// ModalKind distinguishes which dialog is currently showing.
type ModalKind int

const (
	ModalNone ModalKind = iota
	ModalNewSession
	ModalConfirmDelete
	ModalHelp
)

// NewSessionState holds the form fields for creating a session: the repo
// path, base branch, and the agent/model/permission trio a new session
// is seeded with.
type NewSessionState struct {
	RepoPath       string
	BaseBranch     string
	AgentKind      store.AgentKind
	Model          string
	PermissionMode store.PermissionMode
	field          int
}

func NewNewSessionState(defaultRepo string, agentKind store.AgentKind, model string, mode store.PermissionMode) *NewSessionState {
	return &NewSessionState{RepoPath: defaultRepo, AgentKind: agentKind, Model: model, PermissionMode: mode}
}

// ConfirmDeleteState confirms destructive deletion of one session.
type ConfirmDeleteState struct {
	SessionID string
	Label     string
}

// Modal is a popup dialog. Only one is visible at a time.
type Modal struct {
	kind  ModalKind
	width int

	newSession     *NewSessionState
	confirmDelete  *ConfirmDeleteState
	helpSections   []HelpSection
	error          string
}

// HelpSection is one titled group of keybindings in the help overlay.
type HelpSection struct {
	Title    string
	Bindings []KeyBinding
}

func NewModal() *Modal {
	return &Modal{}
}

func (m *Modal) ShowNewSession(s *NewSessionState) {
	m.kind, m.newSession, m.error = ModalNewSession, s, ""
}

func (m *Modal) ShowConfirmDelete(s *ConfirmDeleteState) {
	m.kind, m.confirmDelete, m.error = ModalConfirmDelete, s, ""
}

func (m *Modal) ShowHelp(sections []HelpSection) {
	m.kind, m.helpSections, m.error = ModalHelp, sections, ""
}

func (m *Modal) Hide() {
	m.kind, m.newSession, m.confirmDelete, m.error = ModalNone, nil, nil, ""
}

func (m *Modal) IsVisible() bool { return m.kind != ModalNone }

func (m *Modal) Kind() ModalKind { return m.kind }

func (m *Modal) NewSession() *NewSessionState { return m.newSession }

func (m *Modal) ConfirmDelete() *ConfirmDeleteState { return m.confirmDelete }

func (m *Modal) SetError(err string) { m.error = err }

func (m *Modal) GetError() string { return m.error }

// Update routes typing into the visible modal's text fields.
func (m *Modal) Update(msg tea.Msg) (*Modal, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok || m.kind != ModalNewSession || m.newSession == nil {
		return m, nil
	}
	switch keyMsg.String() {
	case "tab":
		m.newSession.field = (m.newSession.field + 1) % 2
	case "backspace":
		m.editField(func(s string) string {
			if len(s) == 0 {
				return s
			}
			return s[:len(s)-1]
		})
	default:
		if keyMsg.Text != "" {
			m.editField(func(s string) string { return s + keyMsg.Text })
		}
	}
	return m, nil
}

func (m *Modal) editField(f func(string) string) {
	switch m.newSession.field {
	case 0:
		m.newSession.RepoPath = f(m.newSession.RepoPath)
	case 1:
		m.newSession.BaseBranch = f(m.newSession.BaseBranch)
	}
}

func (m *Modal) renderNewSession() string {
	return ModalTitleStyle.Render("New session") + "\n\n" +
		"repo: " + m.newSession.RepoPath + "\n" +
		"base branch: " + m.newSession.BaseBranch + "\n" +
		"agent: " + string(m.newSession.AgentKind) + "  model: " + m.newSession.Model + "\n\n" +
		ModalHelpStyle.Render("tab: next field  enter: create  esc: cancel")
}

func (m *Modal) renderConfirmDelete() string {
	return ModalTitleStyle.Render("Delete session?") + "\n\n" +
		m.confirmDelete.Label + "\n\n" +
		ModalHelpStyle.Render("y: delete  n/esc: cancel")
}

func (m *Modal) renderHelp() string {
	out := ModalTitleStyle.Render("Keybindings") + "\n"
	for _, sec := range m.helpSections {
		out += "\n" + lipgloss.NewStyle().Bold(true).Render(sec.Title) + "\n"
		for _, b := range sec.Bindings {
			out += "  " + FooterKeyStyle.Render(b.Key) + FooterDescStyle.Render(": "+b.Desc) + "\n"
		}
	}
	return out + "\n" + ModalHelpStyle.Render("?/esc: close")
}

// View renders the visible modal centered on the screen.
func (m *Modal) View(screenWidth, screenHeight int) string {
	if m.kind == ModalNone {
		return ""
	}

	var content string
	switch m.kind {
	case ModalNewSession:
		content = m.renderNewSession()
	case ModalConfirmDelete:
		content = m.renderConfirmDelete()
	case ModalHelp:
		content = m.renderHelp()
	}
	if m.error != "" {
		content += "\n" + StatusErrorStyle.Render(m.error)
	}

	width := ModalWidth
	if maxWidth := screenWidth - 6; width > maxWidth {
		width = maxWidth
	}

	box := ModalStyle.Width(width).Render(content)
	return lipgloss.Place(screenWidth, screenHeight, lipgloss.Center, lipgloss.Center, box)
}
