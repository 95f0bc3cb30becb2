package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/zhubert/plural-orchestrator/internal/manager"
	"github.com/zhubert/plural-orchestrator/internal/store"
	"github.com/zhubert/plural-orchestrator/internal/ui"
)

// workflowResultMsg carries the outcome of a one-shot manager workflow
// call back into Update, so every session-lifecycle operation runs as a
// Bubble Tea command instead of blocking the render loop.
type workflowResultMsg struct {
	flash string
	kind  ui.FlashType
}

func (m *Model) runWorkflow(label string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return workflowResultMsg{flash: label + ": " + err.Error(), kind: ui.FlashError}
		}
		return workflowResultMsg{flash: label + " ok", kind: ui.FlashSuccess}
	}
}

// resolveProject finds the existing project row for repoPath, or upserts a
// new one, returning the project row either way.
func (m *Model) resolveProject(ctx context.Context, repoPath string) (*store.Project, error) {
	projects, err := m.st.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if p.Path == repoPath {
			return &p, nil
		}
	}
	now := time.Now().Unix()
	p := &store.Project{
		ID:        uuid.NewString(),
		Path:      repoPath,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.st.UpsertProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (m *Model) createSessionCmd(s ui.NewSessionState) tea.Cmd {
	return m.runWorkflow("create session", func() error {
		proj, err := m.resolveProject(m.ctx, s.RepoPath)
		if err != nil {
			return err
		}
		_, err = m.mgr.CreateSession(m.ctx, proj.ID, s.RepoPath, s.BaseBranch, s.AgentKind, s.PermissionMode, s.Model)
		return err
	})
}

func (m *Model) submitPromptCmd(sel manager.SessionSnapshot, text string) tea.Cmd {
	return m.runWorkflow("submit", func() error {
		return m.mgr.SubmitPrompt(m.ctx, sel.Session, text)
	})
}

func (m *Model) forkSessionCmd(sel manager.SessionSnapshot) tea.Cmd {
	return m.runWorkflow("fork", func() error {
		_, err := m.mgr.CreateForkedSession(m.ctx, sel.Session)
		return err
	})
}

func (m *Model) createPullRequestCmd(sel manager.SessionSnapshot) tea.Cmd {
	return m.runWorkflow("pull request", func() error {
		return m.mgr.CreatePullRequest(m.ctx, sel.Session)
	})
}

func (m *Model) mergeLocalCmd(sel manager.SessionSnapshot) tea.Cmd {
	return m.runWorkflow("merge", func() error {
		proj, err := m.st.GetProject(m.ctx, sel.ProjectID)
		if err != nil {
			return err
		}
		base := m.mgr.DefaultBranch(m.ctx, proj.Path)
		_, err = m.mgr.MergeLocal(m.ctx, sel.Session, base)
		return err
	})
}

func (m *Model) deleteSessionCmd(sessionID string) tea.Cmd {
	return m.runWorkflow("delete", func() error {
		sess, err := m.st.GetSession(m.ctx, sessionID)
		if err != nil {
			return err
		}
		return m.mgr.DeleteSession(m.ctx, *sess)
	})
}
