package ui

import (
	"fmt"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/zhubert/plural-orchestrator/internal/manager"
	"github.com/zhubert/plural-orchestrator/internal/store"
)

// sidebarNode is one line of the sidebar's flattened tree: either a repo
// header or a session belonging to the repo above it.
type sidebarNode struct {
	isRepo    bool
	projectID string
	repoPath  string
	session   manager.SessionSnapshot
}

// Sidebar lists every open project grouped by repo, with its sessions
// nested underneath, generalized from the original repo-grouped session
// tree to manager.SessionSnapshot instead of config.Session.
type Sidebar struct {
	width, height int
	focused       bool

	projects []store.ProjectWithCounts
	nodes    []sidebarNode
	cursor   int
}

func NewSidebar() *Sidebar {
	return &Sidebar{}
}

func (s *Sidebar) SetSize(width, height int) { s.width, s.height = width, height }

func (s *Sidebar) Width() int { return s.width }

func (s *Sidebar) SetFocused(focused bool) { s.focused = focused }

func (s *Sidebar) IsFocused() bool { return s.focused }

// SetData replaces the full sidebar contents and rebuilds the flattened
// node list used for cursor navigation.
func (s *Sidebar) SetData(projects []store.ProjectWithCounts, sessions []manager.SessionSnapshot) {
	sort.Slice(projects, func(i, j int) bool { return projects[i].Path < projects[j].Path })
	s.projects = projects

	byProject := make(map[string][]manager.SessionSnapshot)
	for _, sess := range sessions {
		byProject[sess.ProjectID] = append(byProject[sess.ProjectID], sess)
	}
	for id := range byProject {
		sort.Slice(byProject[id], func(i, j int) bool {
			return byProject[id][i].UpdatedAt > byProject[id][j].UpdatedAt
		})
	}

	s.nodes = s.nodes[:0]
	for _, p := range projects {
		s.nodes = append(s.nodes, sidebarNode{isRepo: true, projectID: p.ID, repoPath: p.Path})
		for _, sess := range byProject[p.ID] {
			s.nodes = append(s.nodes, sidebarNode{projectID: p.ID, session: sess})
		}
	}
	if s.cursor >= len(s.nodes) {
		s.cursor = max(0, len(s.nodes)-1)
	}
}

func (s *Sidebar) MoveUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

func (s *Sidebar) MoveDown() {
	if s.cursor < len(s.nodes)-1 {
		s.cursor++
	}
}

// SelectedSession returns the currently highlighted session, if the
// cursor sits on a session row rather than a repo header.
func (s *Sidebar) SelectedSession() *manager.SessionSnapshot {
	if s.cursor < 0 || s.cursor >= len(s.nodes) {
		return nil
	}
	n := s.nodes[s.cursor]
	if n.isRepo {
		return nil
	}
	return &n.session
}

// SelectedProjectID returns the project backing the cursor's row, whether
// it sits on the repo header or one of its sessions.
func (s *Sidebar) SelectedProjectID() string {
	if s.cursor < 0 || s.cursor >= len(s.nodes) {
		return ""
	}
	return s.nodes[s.cursor].projectID
}

func statusGlyph(snap manager.SessionSnapshot) (string, lipgloss.Color) {
	if snap.Busy {
		return "●", ColorWarning
	}
	switch snap.Status {
	case store.StatusDone:
		return "✓", ColorSuccess
	case store.StatusReview, store.StatusPullRequest, store.StatusCreatingPullRequest:
		return "◐", ColorInfo
	default:
		return "○", ColorMuted
	}
}

func sessionLabel(snap manager.SessionSnapshot) string {
	if snap.Title != nil && *snap.Title != "" {
		return *snap.Title
	}
	return snap.BranchName
}

// View renders the sidebar.
func (s *Sidebar) View() string {
	var b strings.Builder
	for i, n := range s.nodes {
		selected := i == s.cursor
		if n.isRepo {
			line := SidebarRepoStyle.Render(n.repoPath)
			if selected && s.focused {
				line = SidebarSelectedStyle.Render(n.repoPath)
			}
			b.WriteString(line + "\n")
			continue
		}
		glyph, color := statusGlyph(n.session)
		label := fmt.Sprintf("  %s %s", lipgloss.NewStyle().Foreground(color).Render(glyph), sessionLabel(n.session))
		if selected && s.focused {
			label = SidebarSelectedStyle.Render(label)
		} else {
			label = SidebarItemStyle.Render(label)
		}
		b.WriteString(label + "\n")
	}

	style := PanelStyle
	if s.focused {
		style = PanelFocusedStyle
	}
	return style.Width(s.width - 2).Height(s.height - 2).Render(b.String())
}
