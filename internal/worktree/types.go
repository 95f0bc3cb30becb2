// Package worktree implements the git worktree manager: creating and
// destroying per-session worktrees, committing changes, producing diffs,
// and performing local merges back to a base branch.
package worktree

import "fmt"

// MergeResult is the outcome of a merge-to-base attempt.
type MergeResult string

const (
	MergeOk       MergeResult = "Ok"
	MergeConflict MergeResult = "Conflict"
	MergeBlocked  MergeResult = "Blocked"
)

// DiffStats summarizes a unified diff: files touched, lines added/removed.
type DiffStats struct {
	FilesChanged int
	Additions    int
	Deletions    int
}

// UnifiedDiff is the raw diff text plus its stats.
type UnifiedDiff struct {
	Text  string
	Stats DiffStats
}

// Created describes a freshly-made worktree.
type Created struct {
	WorktreePath string
	BranchName   string
	BaseCommit   string
}

// MergeOutcome is the structured result of a merge attempt, carrying
// conflicted files when the result is MergeConflict.
type MergeOutcome struct {
	Result          MergeResult
	ConflictedFiles []string
	Detail          string
}

// ConflictError is returned by MergeToBase when a merge stops on conflict
// markers, so callers can branch on errors.As without string matching.
type ConflictError struct {
	ConflictedFiles []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("merge conflict in %d file(s)", len(e.ConflictedFiles))
}

// BlockedError describes a base that has diverged in a way that requires a
// rebase first. MergeToBase reports that case as a MergeOutcome with
// Result MergeBlocked and a nil error; it does not return BlockedError.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string { return e.Reason }
