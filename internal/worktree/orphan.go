package worktree

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// Orphan describes a worktree directory found on disk with no matching
// session row, surfaced by the recovery reconciler so the user can
// decide whether to reattach or delete it.
type Orphan struct {
	Path       string
	BranchName string
}

// FindOrphans walks WorktreesDir(repoPath) and opens each entry as a
// git repository (read-only, via go-git rather than shelling out, since
// this scan is pure introspection and doesn't mutate anything) to recover
// its checked-out branch name. knownPaths is the set of worktree paths
// that still have a live session row; anything else found on disk is
// reported as an orphan.
func FindOrphans(repoPath string, knownPaths map[string]bool) ([]Orphan, error) {
	dir := WorktreesDir(repoPath)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var orphans []Orphan
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if knownPaths[path] {
			continue
		}

		branch := ""
		if repo, err := git.PlainOpen(path); err == nil {
			if head, err := repo.Head(); err == nil {
				branch = strings.TrimPrefix(head.Name().String(), "refs/heads/")
			}
		}
		orphans = append(orphans, Orphan{Path: path, BranchName: branch})
	}
	return orphans, nil
}

// PruneOrphan removes an orphaned worktree directory and its branch, for
// use once the user confirms it's safe to discard (the
// recovery reconciler offering to clean up detached worktrees).
func (m *Manager) PruneOrphan(ctx context.Context, repoPath string, o Orphan) error {
	return m.RemoveWorktree(ctx, repoPath, o.Path, o.BranchName)
}
