// Package prdriver wraps the gh CLI to create pull requests and poll
// their merge state, generalized from the original internal/git
// CreatePR/GetBatchPRStatesWithComments call sites.
package prdriver

import "context"

// PullRequest is the result of a successful CreatePullRequest call.
type PullRequest struct {
	Number int
	URL    string
}

// Status is one branch's current PR state, as reported by `gh pr list`.
type Status struct {
	State        string // "OPEN", "MERGED", "CLOSED"
	Number       int
	URL          string
	CommentCount int
}

// Executor is the subset of worktree.Executor this package needs; kept as
// its own interface so prdriver doesn't import internal/worktree just for
// a type, and so tests can fake it directly.
type Executor interface {
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr []byte, err error)
	Output(ctx context.Context, dir, name string, args ...string) ([]byte, error)
	CombinedOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}
