package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/plural-orchestrator/internal/keys"
	"github.com/zhubert/plural-orchestrator/internal/manager"
	"github.com/zhubert/plural-orchestrator/internal/store"
	"github.com/zhubert/plural-orchestrator/internal/ui"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.updateSizes()
		return m, nil

	case sidebarDataMsg:
		m.sidebar.SetData(msg.projects, msg.sessions)
		m.syncChatSession()
		return m, nil

	case sessionUpdatedMsg:
		m.syncChatSession()
		return m, tea.Batch(m.listenForUpdate(), m.refreshSidebarCmd())

	case ui.FlashTickMsg:
		m.footer.ClearIfExpired()
		return m, ui.FlashTick()

	case workflowResultMsg:
		m.flash(msg.flash, msg.kind)
		return m, m.refreshSidebarCmd()

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	if m.modal.IsVisible() {
		m.modal, cmd = m.modal.Update(msg)
		return m, cmd
	}
	if m.focus == FocusChat {
		m.chat, cmd = m.chat.Update(msg)
	}
	return m, cmd
}

// syncChatSession re-points the chat pane at the sidebar's currently
// selected session's latest snapshot.
func (m *Model) syncChatSession() {
	sel := m.sidebar.SelectedSession()
	if sel == nil {
		m.chat.SetSession(nil)
		return
	}
	if snap, ok := m.mgr.Reducer().Snapshot(sel.ID); ok {
		m.chat.SetSession(&snap)
	} else {
		m.chat.SetSession(sel)
	}
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.modal.IsVisible() {
		return m.handleModalKey(msg)
	}

	switch msg.String() {
	case keys.CtrlC:
		return m, tea.Quit
	case keys.Tab:
		if m.sidebar.SelectedSession() != nil {
			m.toggleFocus()
		}
		return m, nil
	case "?":
		if m.focus == FocusSidebar {
			m.showHelp()
			return m, nil
		}
	}

	if m.focus == FocusChat {
		return m.handleChatKey(msg)
	}
	return m.handleSidebarKey(msg)
}

func (m *Model) toggleFocus() {
	if m.focus == FocusSidebar {
		m.focus = FocusChat
		m.sidebar.SetFocused(false)
		m.chat.SetFocused(true)
	} else {
		m.focus = FocusSidebar
		m.sidebar.SetFocused(true)
		m.chat.SetFocused(false)
	}
}

func (m *Model) handleSidebarKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case keys.Up, "k":
		m.sidebar.MoveUp()
		m.syncChatSession()
	case keys.Down, "j":
		m.sidebar.MoveDown()
		m.syncChatSession()
	case "n":
		m.showNewSession("")
	case "f":
		if sel := m.sidebar.SelectedSession(); sel != nil {
			return m, m.forkSessionCmd(*sel)
		}
	case "p":
		if sel := m.sidebar.SelectedSession(); sel != nil {
			return m, m.createPullRequestCmd(*sel)
		}
	case "m":
		if sel := m.sidebar.SelectedSession(); sel != nil {
			return m, m.mergeLocalCmd(*sel)
		}
	case "d":
		if sel := m.sidebar.SelectedSession(); sel != nil {
			m.modal.ShowConfirmDelete(&ui.ConfirmDeleteState{SessionID: sel.ID, Label: sel.BranchName})
		}
	case "a":
		m.showNewSession("")
	}
	return m, nil
}

func (m *Model) handleChatKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keys.Enter:
		return m.submitChatInput()
	case keys.Escape:
		if sel := m.sidebar.SelectedSession(); sel != nil && sel.Busy {
			m.mgr.Queues().Cancel(sel.ID)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	return m, cmd
}

func (m *Model) submitChatInput() (tea.Model, tea.Cmd) {
	sel := m.sidebar.SelectedSession()
	if sel == nil {
		return m, nil
	}
	text := m.chat.GetInput()
	if text == "" {
		return m, nil
	}
	m.chat.ClearInput()
	return m, m.submitPromptCmd(*sel, text)
}

func (m *Model) showNewSession(repoPath string) {
	if repoPath == "" && len(m.cfg.GetRepos()) > 0 {
		repoPath = m.cfg.GetRepos()[0]
	}
	m.modal.ShowNewSession(ui.NewNewSessionState(repoPath, m.cfg.DefaultAgentKind, m.cfg.DefaultModel, m.cfg.DefaultPermissionMode))
}

func (m *Model) showHelp() {
	m.modal.ShowHelp([]ui.HelpSection{
		{Title: "Navigation", Bindings: []ui.KeyBinding{
			{Key: "j/k, ↑/↓", Desc: "move selection"},
			{Key: "tab", Desc: "switch pane"},
			{Key: "q", Desc: "quit"},
		}},
		{Title: "Sessions", Bindings: []ui.KeyBinding{
			{Key: "n/a", Desc: "new session"},
			{Key: "f", Desc: "fork session"},
			{Key: "p", Desc: "create pull request"},
			{Key: "m", Desc: "merge to base locally"},
			{Key: "d", Desc: "delete session"},
		}},
		{Title: "Chat", Bindings: []ui.KeyBinding{
			{Key: "enter", Desc: "send prompt"},
			{Key: "esc", Desc: "cancel running turn"},
		}},
	})
}

func (m *Model) handleModalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.modal.Kind() {
	case ui.ModalNewSession:
		switch msg.String() {
		case keys.Escape:
			m.modal.Hide()
			return m, nil
		case keys.Enter:
			return m.confirmNewSession()
		}
	case ui.ModalConfirmDelete:
		switch msg.String() {
		case "y":
			cd := m.modal.ConfirmDelete()
			m.modal.Hide()
			return m, m.deleteSessionCmd(cd.SessionID)
		case "n", keys.Escape:
			m.modal.Hide()
			return m, nil
		}
	case ui.ModalHelp:
		switch msg.String() {
		case "?", keys.Escape, keys.Enter:
			m.modal.Hide()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.modal, cmd = m.modal.Update(msg)
	return m, cmd
}

func (m *Model) confirmNewSession() (tea.Model, tea.Cmd) {
	s := m.modal.NewSession()
	if s.RepoPath == "" {
		m.modal.SetError("repo path is required")
		return m, nil
	}
	m.modal.Hide()
	return m, m.createSessionCmd(*s)
}

// statusBadge maps a session's status to the short label shown in the
// header next to its name.
func statusBadge(snap manager.SessionSnapshot) string {
	if snap.Busy {
		return "running"
	}
	switch snap.Status {
	case store.StatusDone:
		return "done"
	default:
		return string(snap.Status)
	}
}
