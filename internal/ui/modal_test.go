package ui

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/plural-orchestrator/internal/store"
)

func TestModalShowAndHide(t *testing.T) {
	m := NewModal()
	if m.IsVisible() {
		t.Fatal("IsVisible() = true on a new modal, want false")
	}

	m.ShowNewSession(NewNewSessionState("/repo", store.AgentClaude, "claude", store.PermissionWrite))
	if !m.IsVisible() || m.Kind() != ModalNewSession {
		t.Fatalf("Kind() = %v, want ModalNewSession", m.Kind())
	}
	if m.NewSession() == nil || m.NewSession().RepoPath != "/repo" {
		t.Errorf("NewSession() = %+v, want RepoPath /repo", m.NewSession())
	}

	m.Hide()
	if m.IsVisible() || m.Kind() != ModalNone {
		t.Fatalf("Kind() = %v after Hide, want ModalNone", m.Kind())
	}
	if m.NewSession() != nil {
		t.Error("NewSession() != nil after Hide, want cleared state")
	}
}

func TestModalShowConfirmDelete(t *testing.T) {
	m := NewModal()
	m.ShowConfirmDelete(&ConfirmDeleteState{SessionID: "s1", Label: "fix-bug"})

	if m.Kind() != ModalConfirmDelete {
		t.Fatalf("Kind() = %v, want ModalConfirmDelete", m.Kind())
	}
	if m.ConfirmDelete() == nil || m.ConfirmDelete().SessionID != "s1" {
		t.Errorf("ConfirmDelete() = %+v, want SessionID s1", m.ConfirmDelete())
	}
}

func TestModalSetAndGetError(t *testing.T) {
	m := NewModal()
	m.ShowConfirmDelete(&ConfirmDeleteState{SessionID: "s1"})
	m.SetError("boom")

	if got := m.GetError(); got != "boom" {
		t.Errorf("GetError() = %q, want boom", got)
	}

	m.ShowHelp(nil)
	if m.GetError() != "" {
		t.Error("GetError() != \"\" after a new Show call, want the error reset")
	}
}

func TestModalUpdateTypesIntoFocusedField(t *testing.T) {
	m := NewModal()
	m.ShowNewSession(NewNewSessionState("", store.AgentClaude, "claude", store.PermissionWrite))

	m, _ = m.Update(tea.KeyPressMsg{Text: "a"})
	m, _ = m.Update(tea.KeyPressMsg{Text: "b"})
	if m.NewSession().RepoPath != "ab" {
		t.Fatalf("RepoPath = %q, want ab", m.NewSession().RepoPath)
	}

	m, _ = m.Update(tea.KeyPressMsg{Text: "", Code: tea.KeyBackspace})
	if m.NewSession().RepoPath != "a" {
		t.Fatalf("RepoPath = %q after backspace, want a", m.NewSession().RepoPath)
	}
}

func TestModalUpdateTabSwitchesField(t *testing.T) {
	m := NewModal()
	m.ShowNewSession(NewNewSessionState("repo", store.AgentClaude, "claude", store.PermissionWrite))

	m, _ = m.Update(tea.KeyPressMsg{Text: "", Code: tea.KeyTab})
	m, _ = m.Update(tea.KeyPressMsg{Text: "x"})
	if m.NewSession().BaseBranch != "x" {
		t.Fatalf("BaseBranch = %q, want x after tab moved focus to the second field", m.NewSession().BaseBranch)
	}
	if m.NewSession().RepoPath != "repo" {
		t.Errorf("RepoPath = %q, want unchanged repo", m.NewSession().RepoPath)
	}
}

func TestModalUpdateIgnoredWhenNotVisible(t *testing.T) {
	m := NewModal()
	m, cmd := m.Update(tea.KeyPressMsg{Text: "a"})
	if cmd != nil {
		t.Error("Update() returned a non-nil cmd on a hidden modal")
	}
	if m.IsVisible() {
		t.Error("Update() made a hidden modal visible")
	}
}
