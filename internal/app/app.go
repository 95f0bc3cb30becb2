// Package app is the Bubble Tea model binding the session manager core
// (internal/manager) to a terminal UI, generalized from a much larger
// app package down to: project sidebar, session chat/output, and the
// core session-lifecycle keybindings (submit, cancel, fork, pull
// request, local merge, delete). Manager.SwitchProject has no keybinding
// here. Broadcast groups, bulk
// actions, GitHub/Asana issue import, search, workspaces, and container
// builds are out of scope — see DESIGN.md.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/plural-orchestrator/internal/config"
	"github.com/zhubert/plural-orchestrator/internal/logger"
	"github.com/zhubert/plural-orchestrator/internal/manager"
	"github.com/zhubert/plural-orchestrator/internal/store"
	"github.com/zhubert/plural-orchestrator/internal/ui"
)

// Focus identifies which panel receives keyboard input.
type Focus int

const (
	FocusSidebar Focus = iota
	FocusChat
)

// Model is the top-level Bubble Tea model.
type Model struct {
	ctx context.Context
	cfg *config.Config
	mgr *manager.Manager
	st  *store.Store
	log interface {
		Error(msg string, args ...any)
		Warn(msg string, args ...any)
	}

	version string
	width   int
	height  int
	focus   Focus

	header  *ui.Header
	footer  *ui.Footer
	sidebar *ui.Sidebar
	chat    *ui.Chat
	modal   *ui.Modal

	updated chan string
}

// sessionUpdatedMsg is sent whenever the reducer applies an event
// affecting sessionID, prompting a re-render from the latest snapshot.
type sessionUpdatedMsg struct{ sessionID string }

// New builds the top-level model. mgr must already have had Recover
// called on it.
func New(ctx context.Context, cfg *config.Config, st *store.Store, mgr *manager.Manager, version string) *Model {
	m := &Model{
		ctx:     ctx,
		cfg:     cfg,
		mgr:     mgr,
		st:      st,
		log:     logger.ComponentLogger("app"),
		version: version,
		header:  ui.NewHeader(),
		footer:  ui.NewFooter(),
		sidebar: ui.NewSidebar(),
		chat:    ui.NewChat(),
		modal:   ui.NewModal(),
		updated: make(chan string, 64),
	}
	m.sidebar.SetFocused(true)
	return m
}

// OnUpdate is passed to manager.New as the reducer's onUpdate callback.
// It never blocks: a full buffer drops the notification since a refresh
// already picks up every session's latest snapshot anyway.
func (m *Model) OnUpdate(sessionID string) {
	select {
	case m.updated <- sessionID:
	default:
	}
}

func (m *Model) listenForUpdate() tea.Cmd {
	return func() tea.Msg {
		sessionID, ok := <-m.updated
		if !ok {
			return nil
		}
		return sessionUpdatedMsg{sessionID: sessionID}
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refreshSidebarCmd(), m.listenForUpdate(), ui.FlashTick())
}

type sidebarDataMsg struct {
	projects []store.ProjectWithCounts
	sessions []manager.SessionSnapshot
}

func (m *Model) refreshSidebarCmd() tea.Cmd {
	return func() tea.Msg {
		projects, err := m.st.ListProjectsWithCounts(m.ctx)
		if err != nil {
			m.log.Error("failed to list projects", "error", err)
			return nil
		}
		sessions, err := m.st.ListAllSessions(m.ctx)
		if err != nil {
			m.log.Error("failed to list sessions", "error", err)
			return nil
		}
		snaps := make([]manager.SessionSnapshot, 0, len(sessions))
		for _, sess := range sessions {
			if snap, ok := m.mgr.Reducer().Snapshot(sess.ID); ok {
				snaps = append(snaps, snap)
			} else {
				snaps = append(snaps, manager.SessionSnapshot{Session: sess})
			}
		}
		return sidebarDataMsg{projects: projects, sessions: snaps}
	}
}

func (m *Model) flash(text string, kind ui.FlashType) {
	m.footer.SetFlash(text, kind)
}

func (m *Model) flashErr(prefix string, err error) {
	m.flash(fmt.Sprintf("%s: %v", prefix, err), ui.FlashError)
}
