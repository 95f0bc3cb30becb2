package worktree

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeExecutor records every invocation and returns canned responses keyed
// by the joined command line, letting tests exercise Manager without a
// real git binary.
type fakeExecutor struct {
	calls     []string
	responses map[string][]byte
	errors    map[string]error
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{responses: map[string][]byte{}, errors: map[string]error{}}
}

func key(name string, args ...string) string {
	return name + " " + strings.Join(args, " ")
}

func (f *fakeExecutor) set(resp []byte, name string, args ...string) {
	f.responses[key(name, args...)] = resp
}

func (f *fakeExecutor) fail(err error, name string, args ...string) {
	f.errors[key(name, args...)] = err
}

func (f *fakeExecutor) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, key(name, args...))
	k := key(name, args...)
	return f.responses[k], nil, f.errors[k]
}

func (f *fakeExecutor) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, key(name, args...))
	k := key(name, args...)
	return f.responses[k], f.errors[k]
}

func (f *fakeExecutor) CombinedOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, key(name, args...))
	k := key(name, args...)
	return f.responses[k], f.errors[k]
}

func TestCreateWorktreeDerivesBranchFromSessionID(t *testing.T) {
	exec := newFakeExecutor()
	exec.fail(errors.New("no such ref"), "git", "rev-parse", "--verify", "plural/abc1234")
	exec.set([]byte("deadbeefcafe\n"), "git", "rev-parse", "HEAD")

	m := NewManagerWithExecutor(exec)
	created, err := m.CreateWorktree(context.Background(), "/repo", "abc1234-5678-90ab", "main")
	if err != nil {
		t.Fatalf("CreateWorktree() error = %v", err)
	}
	if created.BranchName != "plural/abc1234" {
		t.Errorf("BranchName = %q, want plural/abc1234", created.BranchName)
	}
	if created.BaseCommit != "deadbeefcafe" {
		t.Errorf("BaseCommit = %q, want deadbeefcafe", created.BaseCommit)
	}
}

func TestCreateWorktreeRetriesOnCollision(t *testing.T) {
	exec := newFakeExecutor()
	// First candidate exists (Run succeeds => branchExists true), second does not.
	exec.set(nil, "git", "rev-parse", "--verify", "plural/abc1234")
	exec.fail(errors.New("no such ref"), "git", "rev-parse", "--verify", "plural/abc1234-2")
	exec.set([]byte("cafef00d\n"), "git", "rev-parse", "HEAD")

	m := NewManagerWithExecutor(exec)
	created, err := m.CreateWorktree(context.Background(), "/repo", "abc1234-5678", "main")
	if err != nil {
		t.Fatalf("CreateWorktree() error = %v", err)
	}
	if created.BranchName != "plural/abc1234-2" {
		t.Errorf("BranchName = %q, want plural/abc1234-2", created.BranchName)
	}
}

func TestIsCleanTrueWhenNoStatusOutput(t *testing.T) {
	exec := newFakeExecutor()
	exec.set([]byte(""), "git", "status", "--porcelain")
	m := NewManagerWithExecutor(exec)

	clean, err := m.IsClean(context.Background(), "/wt")
	if err != nil {
		t.Fatalf("IsClean() error = %v", err)
	}
	if !clean {
		t.Errorf("IsClean() = false, want true")
	}
}

func TestCommitAllNoOpOnCleanWorktree(t *testing.T) {
	exec := newFakeExecutor()
	exec.set([]byte(""), "git", "status", "--porcelain")
	m := NewManagerWithExecutor(exec)

	commitID, err := m.CommitAll(context.Background(), "/wt", "message")
	if err != nil {
		t.Fatalf("CommitAll() error = %v", err)
	}
	if commitID != "" {
		t.Errorf("CommitAll() on clean worktree = %q, want empty", commitID)
	}
	for _, c := range exec.calls {
		if strings.HasPrefix(c, "git commit") {
			t.Errorf("expected no git commit call on clean worktree, got calls=%v", exec.calls)
		}
	}
}

func TestCommitAllCommitsDirtyWorktree(t *testing.T) {
	exec := newFakeExecutor()
	exec.set([]byte(" M file.go\n"), "git", "status", "--porcelain")
	exec.set([]byte("newcommit123\n"), "git", "rev-parse", "HEAD")

	m := NewManagerWithExecutor(exec)
	commitID, err := m.CommitAll(context.Background(), "/wt", "")
	if err != nil {
		t.Fatalf("CommitAll() error = %v", err)
	}
	if commitID != "newcommit123" {
		t.Errorf("CommitAll() = %q, want newcommit123", commitID)
	}

	foundDefaultMessage := false
	for _, c := range exec.calls {
		if c == key("git", "commit", "-m", "wip") {
			foundDefaultMessage = true
		}
	}
	if !foundDefaultMessage {
		t.Errorf("expected default commit message 'wip', calls=%v", exec.calls)
	}
}

func TestMergeToBaseReturnsConflict(t *testing.T) {
	exec := newFakeExecutor()
	exec.set([]byte(""), "git", "status", "--porcelain")
	exec.fail(errors.New("merge failed"), "git", "merge", "plural/abc1234", "--no-edit")
	exec.set([]byte("conflicted.go\n"), "git", "diff", "--name-only", "--diff-filter=U")

	m := NewManagerWithExecutor(exec)
	outcome, err := m.MergeToBase(context.Background(), "/repo", "/wt", "plural/abc1234", "main", "merge commit")
	if outcome == nil || outcome.Result != MergeConflict {
		t.Fatalf("MergeToBase() outcome = %+v, want Result=Conflict", outcome)
	}
	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("MergeToBase() error = %v, want *ConflictError", err)
	}
	if len(conflictErr.ConflictedFiles) != 1 || conflictErr.ConflictedFiles[0] != "conflicted.go" {
		t.Errorf("ConflictedFiles = %v, want [conflicted.go]", conflictErr.ConflictedFiles)
	}
}

func TestMergeToBaseOkOnCleanMerge(t *testing.T) {
	exec := newFakeExecutor()
	exec.set([]byte(""), "git", "status", "--porcelain")
	exec.set([]byte("Merge made by the 'ort' strategy.\n"), "git", "merge", "plural/abc1234", "--no-edit")

	m := NewManagerWithExecutor(exec)
	outcome, err := m.MergeToBase(context.Background(), "/repo", "/wt", "plural/abc1234", "main", "")
	if err != nil {
		t.Fatalf("MergeToBase() error = %v", err)
	}
	if outcome.Result != MergeOk {
		t.Errorf("MergeToBase() Result = %v, want Ok", outcome.Result)
	}
}

func TestDiffStatsFallbackCountsAddedRemovedLines(t *testing.T) {
	diff := strings.Join([]string{
		"diff --git a/foo.go b/foo.go",
		"--- a/foo.go",
		"+++ b/foo.go",
		"@@ -1,2 +1,2 @@",
		"-old line",
		"+new line",
		"+another new line",
	}, "\n")

	stats := fallbackDiffStats(diff)
	if stats.FilesChanged != 1 {
		t.Errorf("FilesChanged = %d, want 1", stats.FilesChanged)
	}
	if stats.Additions != 2 {
		t.Errorf("Additions = %d, want 2", stats.Additions)
	}
	if stats.Deletions != 1 {
		t.Errorf("Deletions = %d, want 1", stats.Deletions)
	}
}
