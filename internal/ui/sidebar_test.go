package ui

import (
	"testing"

	"github.com/zhubert/plural-orchestrator/internal/manager"
	"github.com/zhubert/plural-orchestrator/internal/store"
)

func TestSidebarSetDataFlattensReposAndSessionsSorted(t *testing.T) {
	s := NewSidebar()

	projects := []store.ProjectWithCounts{
		{Project: store.Project{ID: "p2", Path: "/repo/b"}},
		{Project: store.Project{ID: "p1", Path: "/repo/a"}},
	}
	sessions := []manager.SessionSnapshot{
		{Session: store.Session{ID: "s1", ProjectID: "p1", BranchName: "older", UpdatedAt: 1}},
		{Session: store.Session{ID: "s2", ProjectID: "p1", BranchName: "newer", UpdatedAt: 2}},
	}

	s.SetData(projects, sessions)

	if len(s.nodes) != 4 {
		t.Fatalf("len(nodes) = %d, want 4 (2 repo headers + 2 sessions)", len(s.nodes))
	}
	if !s.nodes[0].isRepo || s.nodes[0].repoPath != "/repo/a" {
		t.Errorf("nodes[0] = %+v, want repo header /repo/a (sorted first)", s.nodes[0])
	}
	if s.nodes[1].isRepo || s.nodes[1].session.ID != "s2" {
		t.Errorf("nodes[1] = %+v, want session s2 (most recently updated first)", s.nodes[1])
	}
	if s.nodes[2].isRepo || s.nodes[2].session.ID != "s1" {
		t.Errorf("nodes[2] = %+v, want session s1", s.nodes[2])
	}
	if !s.nodes[3].isRepo || s.nodes[3].repoPath != "/repo/b" {
		t.Errorf("nodes[3] = %+v, want repo header /repo/b", s.nodes[3])
	}
}

func TestSidebarMoveUpDownClampsAtBounds(t *testing.T) {
	s := NewSidebar()
	s.SetData([]store.ProjectWithCounts{{Project: store.Project{ID: "p1", Path: "/repo"}}}, []manager.SessionSnapshot{
		{Session: store.Session{ID: "s1", ProjectID: "p1"}},
	})

	s.MoveUp() // already at 0, should stay
	if s.cursor != 0 {
		t.Fatalf("cursor = %d, want 0 after MoveUp at top", s.cursor)
	}

	s.MoveDown()
	if s.cursor != 1 {
		t.Fatalf("cursor = %d, want 1 after MoveDown onto the session row", s.cursor)
	}

	s.MoveDown() // already at the bottom
	if s.cursor != 1 {
		t.Fatalf("cursor = %d, want 1 (clamped at bottom)", s.cursor)
	}
}

func TestSidebarSelectedSessionNilOnRepoHeader(t *testing.T) {
	s := NewSidebar()
	s.SetData([]store.ProjectWithCounts{{Project: store.Project{ID: "p1", Path: "/repo"}}}, []manager.SessionSnapshot{
		{Session: store.Session{ID: "s1", ProjectID: "p1"}},
	})

	if got := s.SelectedSession(); got != nil {
		t.Errorf("SelectedSession() = %+v, want nil while cursor sits on the repo header", got)
	}

	s.MoveDown()
	got := s.SelectedSession()
	if got == nil || got.ID != "s1" {
		t.Errorf("SelectedSession() = %+v, want session s1", got)
	}
}

func TestSidebarSelectedProjectIDFollowsCursor(t *testing.T) {
	s := NewSidebar()
	s.SetData([]store.ProjectWithCounts{{Project: store.Project{ID: "p1", Path: "/repo"}}}, nil)

	if got := s.SelectedProjectID(); got != "p1" {
		t.Errorf("SelectedProjectID() = %q, want p1", got)
	}
}

func TestSessionLabelPrefersTitleOverBranchName(t *testing.T) {
	title := "Fix the bug"
	withTitle := manager.SessionSnapshot{Session: store.Session{Title: &title, BranchName: "plural/abc123"}}
	if got := sessionLabel(withTitle); got != title {
		t.Errorf("sessionLabel() = %q, want %q", got, title)
	}

	withoutTitle := manager.SessionSnapshot{Session: store.Session{BranchName: "plural/abc123"}}
	if got := sessionLabel(withoutTitle); got != "plural/abc123" {
		t.Errorf("sessionLabel() = %q, want branch name fallback", got)
	}
}
