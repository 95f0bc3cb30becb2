package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// updateSizes recalculates and applies panel dimensions for the current
// terminal size, generalized from a ViewContext-driven layout to the
// fixed header/sidebar/chat/footer arrangement used here.
func (m *Model) updateSizes() {
	contentHeight := m.height - HeaderHeight - FooterHeight
	if contentHeight < 1 {
		contentHeight = 1
	}
	sidebarWidth := m.width / SidebarWidthRatio
	chatWidth := m.width - sidebarWidth

	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.sidebar.SetSize(sidebarWidth, contentHeight)
	m.chat.SetSize(chatWidth, contentHeight)
}

const (
	HeaderHeight      = 1
	FooterHeight      = 1
	SidebarWidthRatio = 3
)

// View renders the app.
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		v.SetContent("loading...")
		return v
	}

	sel := m.sidebar.SelectedSession()
	m.header.SetSessionName("")
	if sel != nil {
		m.header.SetSessionName(sel.BranchName + " [" + statusBadge(*sel) + "]")
	}

	m.footer.SetContext(sel != nil, m.focus == FocusSidebar, sel != nil && sel.Busy)

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), m.chat.View())
	content := lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())

	if m.modal.IsVisible() {
		content = m.modal.View(m.width, m.height)
	}

	v.SetContent(content)
	return v
}
