package worktree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/zhubert/plural-orchestrator/internal/logger"
)

// Manager creates and destroys per-session worktrees, commits changes, and
// performs local merges, generalized from separate session and git
// packages into a single component. All mutating git invocations go
// through Executor so tests can swap in a fake (the CommandExecutor
// pattern this was adapted from).
type Manager struct {
	exec Executor
}

// NewManager builds a Manager backed by the real git binary.
func NewManager() *Manager { return &Manager{exec: NewRealExecutor()} }

// NewManagerWithExecutor builds a Manager backed by the given Executor,
// for tests and for the demo/recording tooling that fakes out git.
func NewManagerWithExecutor(e Executor) *Manager { return &Manager{exec: e} }

// worktreesDirName mirrors the original convention of a dotdir sibling to
// the repo holding every managed worktree.
const worktreesDirName = ".worktrees"

// branchPrefix is prepended to every auto-generated branch name.
const branchPrefix = "plural"

// WorktreesDir returns the directory holding every worktree for repoPath.
func WorktreesDir(repoPath string) string {
	return filepath.Join(filepath.Dir(repoPath), worktreesDirName)
}

// shortID takes the first 7 base36-safe characters of a session id. UUIDs
// are hex, and hex digits are a subset of base36, so stripping dashes and
// slicing is sufficient without a full base conversion.
func shortID(sessionID string) string {
	compact := strings.ReplaceAll(sessionID, "-", "")
	if len(compact) > 7 {
		compact = compact[:7]
	}
	return compact
}

// CreateWorktree creates a new worktree branched from baseBranch, with a
// branch name derived from sessionID. Branch name collisions retry with
// an incrementing numeric suffix, up to 10 attempts, logging a warning
// via internal/logger.
func (m *Manager) CreateWorktree(ctx context.Context, repoPath, sessionID, baseBranch string) (*Created, error) {
	log := logger.ComponentLogger("worktree")

	base := fmt.Sprintf("%s/%s", branchPrefix, shortID(sessionID))
	branch := base
	for attempt := 1; attempt <= 10; attempt++ {
		if attempt > 1 {
			branch = fmt.Sprintf("%s-%d", base, attempt)
			log.Warn("branch name collision, retrying", "branch", base, "attempt", attempt)
		}
		if !m.branchExists(ctx, repoPath, branch) {
			break
		}
		if attempt == 10 {
			return nil, fmt.Errorf("worktree: could not allocate a unique branch name after 10 attempts (base %q)", base)
		}
	}

	worktreePath := filepath.Join(WorktreesDir(repoPath), sessionID)
	output, err := m.exec.CombinedOutput(ctx, repoPath, "git", "worktree", "add", "-b", branch, worktreePath, baseBranch)
	if err != nil {
		return nil, fmt.Errorf("worktree: create worktree: %s: %w", string(output), err)
	}

	baseCommit, err := m.exec.Output(ctx, worktreePath, "git", "rev-parse", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("worktree: resolve base commit: %w", err)
	}

	log.Info("worktree created", "sessionID", sessionID, "branch", branch, "path", worktreePath)
	return &Created{
		WorktreePath: worktreePath,
		BranchName:   branch,
		BaseCommit:   strings.TrimSpace(string(baseCommit)),
	}, nil
}

func (m *Manager) branchExists(ctx context.Context, repoPath, branch string) bool {
	_, _, err := m.exec.Run(ctx, repoPath, "git", "rev-parse", "--verify", branch)
	return err == nil
}

// RemoveWorktree removes a worktree and best-effort deletes its branch.
func (m *Manager) RemoveWorktree(ctx context.Context, repoPath, worktreePath, branchName string) error {
	log := logger.ComponentLogger("worktree")

	output, err := m.exec.CombinedOutput(ctx, repoPath, "git", "worktree", "remove", worktreePath, "--force")
	if err != nil {
		return fmt.Errorf("worktree: remove worktree: %s: %w", string(output), err)
	}

	if output, err := m.exec.CombinedOutput(ctx, repoPath, "git", "worktree", "prune"); err != nil {
		log.Warn("worktree prune failed (best-effort)", "output", string(output), "error", err)
	}

	if output, err := m.exec.CombinedOutput(ctx, repoPath, "git", "branch", "-D", branchName); err != nil {
		log.Warn("branch delete failed (best-effort, worktree already gone)", "branch", branchName, "output", string(output))
	}

	return nil
}

// IsClean reports whether a worktree has no staged, unstaged, or untracked
// changes.
func (m *Manager) IsClean(ctx context.Context, worktreePath string) (bool, error) {
	output, err := m.exec.Output(ctx, worktreePath, "git", "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("worktree: status: %w", err)
	}
	return strings.TrimSpace(string(output)) == "", nil
}

// CommitAll stages all tracked and untracked (non-gitignored) files and
// commits with message, or the literal "wip" if message is empty. A
// no-op (clean worktree) returns ("", nil) rather than an error — it
// must emit no commit and no SessionUpdated.
func (m *Manager) CommitAll(ctx context.Context, worktreePath, message string) (string, error) {
	clean, err := m.IsClean(ctx, worktreePath)
	if err != nil {
		return "", err
	}
	if clean {
		return "", nil
	}

	if message == "" {
		message = "wip"
	}

	if output, err := m.exec.CombinedOutput(ctx, worktreePath, "git", "add", "-A"); err != nil {
		return "", fmt.Errorf("worktree: git add: %s: %w", string(output), err)
	}
	if output, err := m.exec.CombinedOutput(ctx, worktreePath, "git", "commit", "-m", message); err != nil {
		return "", fmt.Errorf("worktree: git commit: %s: %w", string(output), err)
	}

	commitID, err := m.exec.Output(ctx, worktreePath, "git", "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("worktree: resolve new commit: %w", err)
	}
	return strings.TrimSpace(string(commitID)), nil
}

// DiffAgainst renders the unified diff between baseCommit and the
// worktree's current HEAD (staged + unstaged), plus a stats summary
// computed by walking diff hunks with go-diff instead of regexing
// `git diff --stat` output.
func (m *Manager) DiffAgainst(ctx context.Context, worktreePath, baseCommit string) (*UnifiedDiff, error) {
	raw, err := m.exec.Output(ctx, worktreePath, "git", "diff", "--no-ext-diff", baseCommit, "HEAD")
	if err != nil {
		return nil, fmt.Errorf("worktree: diff against %s: %w", baseCommit, err)
	}

	uncommitted, err := m.exec.Output(ctx, worktreePath, "git", "diff", "--no-ext-diff", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("worktree: diff uncommitted: %w", err)
	}

	text := string(raw) + string(uncommitted)
	return &UnifiedDiff{Text: text, Stats: diffStats(text)}, nil
}

// diffStats walks a unified diff's hunks with diffmatchpatch's patch
// parser to count files changed and lines added/removed, rather than
// shelling back out to `git diff --stat` and regexing its summary line.
func diffStats(unified string) DiffStats {
	dmp := diffmatchpatch.New()
	patches, err := dmp.PatchFromText(unified)
	if err != nil {
		return fallbackDiffStats(unified)
	}

	stats := DiffStats{}
	filesSeen := make(map[string]bool)
	for _, p := range patches {
		for _, diff := range p.Diffs {
			switch diff.Type {
			case diffmatchpatch.DiffInsert:
				stats.Additions += strings.Count(diff.Text, "\n")
			case diffmatchpatch.DiffDelete:
				stats.Deletions += strings.Count(diff.Text, "\n")
			}
		}
	}
	for _, line := range strings.Split(unified, "\n") {
		if strings.HasPrefix(line, "diff --git ") {
			filesSeen[line] = true
		}
	}
	stats.FilesChanged = len(filesSeen)
	return stats
}

// fallbackDiffStats counts +/- lines directly when the diff isn't in a
// shape diffmatchpatch's patch parser accepts (it expects its own patch
// header format, which `git diff` output doesn't always match exactly).
func fallbackDiffStats(unified string) DiffStats {
	stats := DiffStats{}
	filesSeen := make(map[string]bool)
	for _, line := range strings.Split(unified, "\n") {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			filesSeen[line] = true
		case strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---"):
			continue
		case strings.HasPrefix(line, "+"):
			stats.Additions++
		case strings.HasPrefix(line, "-"):
			stats.Deletions++
		}
	}
	stats.FilesChanged = len(filesSeen)
	return stats
}

// MergeToBase merges the worktree's branch into baseBranch in repoPath.
// Returns Blocked if the base has diverged in a way requiring a rebase,
// Conflict if the merge produces conflict markers, Ok otherwise.
func (m *Manager) MergeToBase(ctx context.Context, repoPath, worktreePath, branch, baseBranch, commitMessage string) (*MergeOutcome, error) {
	if _, err := m.CommitAll(ctx, worktreePath, commitMessage); err != nil {
		return nil, fmt.Errorf("worktree: commit before merge: %w", err)
	}

	if output, err := m.exec.CombinedOutput(ctx, repoPath, "git", "checkout", baseBranch); err != nil {
		return nil, fmt.Errorf("worktree: checkout %s: %s: %w", baseBranch, string(output), err)
	}

	if behind, err := m.isBehindRemote(ctx, repoPath, baseBranch); err == nil && behind {
		return &MergeOutcome{Result: MergeBlocked, Detail: fmt.Sprintf("%s has diverged from its remote tracking branch; rebase before merging", baseBranch)}, nil
	}

	output, err := m.exec.CombinedOutput(ctx, repoPath, "git", "merge", branch, "--no-edit")
	if err == nil {
		return &MergeOutcome{Result: MergeOk, Detail: string(output)}, nil
	}

	conflicted, _ := m.conflictedFiles(ctx, repoPath)
	if len(conflicted) > 0 {
		return &MergeOutcome{Result: MergeConflict, ConflictedFiles: conflicted, Detail: string(output)}, &ConflictError{ConflictedFiles: conflicted}
	}

	return nil, fmt.Errorf("worktree: merge %s into %s: %s: %w", branch, baseBranch, string(output), err)
}

func (m *Manager) isBehindRemote(ctx context.Context, repoPath, branch string) (bool, error) {
	remote := "origin/" + branch
	if _, _, err := m.exec.Run(ctx, repoPath, "git", "rev-parse", "--verify", remote); err != nil {
		return false, nil
	}
	out, err := m.exec.Output(ctx, repoPath, "git", "rev-list", "--left-right", "--count", branch+"..."+remote)
	if err != nil {
		return false, err
	}
	fields := strings.Fields(string(out))
	if len(fields) != 2 {
		return false, fmt.Errorf("unexpected rev-list output %q", string(out))
	}
	var ahead, behindCount int
	fmt.Sscanf(fields[0], "%d", &ahead)
	fmt.Sscanf(fields[1], "%d", &behindCount)
	return ahead > 0 && behindCount > 0, nil
}

func (m *Manager) conflictedFiles(ctx context.Context, repoPath string) ([]string, error) {
	output, err := m.exec.Output(ctx, repoPath, "git", "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// ValidateRepo confirms path is a git repository.
func (m *Manager) ValidateRepo(ctx context.Context, path string) error {
	if strings.HasPrefix(path, "~") {
		return fmt.Errorf("worktree: use an absolute path instead of ~")
	}
	output, err := m.exec.CombinedOutput(ctx, path, "git", "rev-parse", "--git-dir")
	if err != nil {
		return fmt.Errorf("worktree: not a git repository: %s", strings.TrimSpace(string(output)))
	}
	return nil
}

// DefaultBranch resolves the repository's default branch, preferring
// origin's HEAD reference and falling back to main/master/current branch.
func (m *Manager) DefaultBranch(ctx context.Context, repoPath string) string {
	if output, err := m.exec.Output(ctx, repoPath, "git", "symbolic-ref", "refs/remotes/origin/HEAD"); err == nil {
		ref := strings.TrimSpace(string(output))
		if strings.HasPrefix(ref, "refs/remotes/origin/") {
			return strings.TrimPrefix(ref, "refs/remotes/origin/")
		}
	}
	if _, _, err := m.exec.Run(ctx, repoPath, "git", "rev-parse", "--verify", "origin/main"); err == nil {
		return "main"
	}
	if _, _, err := m.exec.Run(ctx, repoPath, "git", "rev-parse", "--verify", "origin/master"); err == nil {
		return "master"
	}
	return "main"
}

// ensureDir is used by demo/test setup to create the worktrees directory
// ahead of time; git worktree add creates intermediate dirs itself, but
// the orphan scanner needs the directory to exist before it can walk it.
func ensureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
