package app

import (
	"testing"

	"github.com/zhubert/plural-orchestrator/internal/store"
	"github.com/zhubert/plural-orchestrator/internal/ui"
)

func TestResolveProjectReturnsExistingRowForKnownPath(t *testing.T) {
	m := newTestModel(t)
	if err := m.st.UpsertProject(m.ctx, &store.Project{ID: "p1", Path: "/repo"}); err != nil {
		t.Fatalf("UpsertProject() error = %v", err)
	}

	proj, err := m.resolveProject(m.ctx, "/repo")
	if err != nil {
		t.Fatalf("resolveProject() error = %v", err)
	}
	if proj.ID != "p1" {
		t.Errorf("resolveProject() returned ID %q, want the existing p1", proj.ID)
	}
}

func TestResolveProjectCreatesRowForUnknownPath(t *testing.T) {
	m := newTestModel(t)

	proj, err := m.resolveProject(m.ctx, "/new-repo")
	if err != nil {
		t.Fatalf("resolveProject() error = %v", err)
	}
	if proj.ID == "" || proj.Path != "/new-repo" {
		t.Errorf("resolveProject() = %+v, want a new row for /new-repo", proj)
	}

	again, err := m.resolveProject(m.ctx, "/new-repo")
	if err != nil {
		t.Fatalf("resolveProject() second call error = %v", err)
	}
	if again.ID != proj.ID {
		t.Errorf("resolveProject() created a second row for the same path: %q != %q", again.ID, proj.ID)
	}
}

func TestDeleteSessionCmdFlashesErrorForMissingSession(t *testing.T) {
	m := newTestModel(t)

	cmd := m.deleteSessionCmd("does-not-exist")
	if cmd == nil {
		t.Fatal("deleteSessionCmd() returned a nil cmd")
	}

	msg, ok := cmd().(workflowResultMsg)
	if !ok {
		t.Fatalf("cmd() returned %T, want workflowResultMsg", msg)
	}
	if msg.kind != ui.FlashError {
		t.Errorf("kind = %v, want FlashError for a missing session", msg.kind)
	}
}

func TestRunWorkflowFlashesSuccessWhenFnSucceeds(t *testing.T) {
	m := newTestModel(t)

	cmd := m.runWorkflow("noop", func() error { return nil })
	msg, ok := cmd().(workflowResultMsg)
	if !ok {
		t.Fatalf("cmd() returned %T, want workflowResultMsg", msg)
	}
	if msg.kind != ui.FlashSuccess || msg.flash != "noop ok" {
		t.Errorf("msg = %+v, want success flash \"noop ok\"", msg)
	}
}

func TestRunWorkflowFlashesErrorWhenFnFails(t *testing.T) {
	m := newTestModel(t)

	cmd := m.runWorkflow("noop", func() error { return errBoom })
	msg, ok := cmd().(workflowResultMsg)
	if !ok {
		t.Fatalf("cmd() returned %T, want workflowResultMsg", msg)
	}
	if msg.kind != ui.FlashError {
		t.Errorf("kind = %v, want FlashError", msg.kind)
	}
}
