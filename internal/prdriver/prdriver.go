package prdriver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zhubert/plural-orchestrator/internal/logger"
)

// Driver creates pull requests and polls their merge state via the gh
// CLI, generalized from the original git.CreatePR goroutine-and-channel
// style into synchronous calls the session manager's workflow layer can
// await directly.
type Driver struct {
	exec Executor
}

// New builds a Driver backed by the given Executor (worktree.NewRealExecutor()
// satisfies this interface, since both packages share the same Run/
// Output/CombinedOutput shape).
func New(exec Executor) *Driver {
	return &Driver{exec: exec}
}

// CreatePullRequest pushes branch to origin and opens a PR against
// baseBranch with the given title/body. The branch's worktree is expected
// to already be committed by the caller (worktree.Manager.CommitAll)
// before this is invoked.
func (d *Driver) CreatePullRequest(ctx context.Context, repoPath, branch, baseBranch, title, body string) (*PullRequest, error) {
	log := logger.ComponentLogger("prdriver")

	if output, err := d.exec.CombinedOutput(ctx, repoPath, "git", "push", "-u", "origin", branch); err != nil {
		return nil, fmt.Errorf("prdriver: push %s: %s: %w", branch, string(output), err)
	}

	args := []string{"pr", "create", "--base", baseBranch, "--head", branch}
	if title != "" {
		args = append(args, "--title", title, "--body", body)
	} else {
		args = append(args, "--fill")
	}

	output, err := d.exec.CombinedOutput(ctx, repoPath, "gh", args...)
	if err != nil {
		return nil, fmt.Errorf("prdriver: gh pr create: %s: %w", string(output), err)
	}
	url := strings.TrimSpace(lastNonEmptyLine(string(output)))

	view, err := d.exec.Output(ctx, repoPath, "gh", "pr", "view", branch, "--json", "number,url")
	if err != nil {
		log.Warn("pr created but gh pr view failed to confirm it", "error", err)
		return &PullRequest{URL: url}, nil
	}

	var parsed struct {
		Number int    `json:"number"`
		URL    string `json:"url"`
	}
	if err := json.Unmarshal(view, &parsed); err != nil {
		return &PullRequest{URL: url}, nil
	}
	return &PullRequest{Number: parsed.Number, URL: parsed.URL}, nil
}

func lastNonEmptyLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return lines[i]
		}
	}
	return ""
}

// prListEntry mirrors one row of `gh pr list --json
// headRefName,state,number,url,comments,reviews` output.
type prListEntry struct {
	HeadRefName string `json:"headRefName"`
	State       string `json:"state"`
	Number      int    `json:"number"`
	URL         string `json:"url"`
	Comments    []any  `json:"comments"`
	Reviews     []any  `json:"reviews"`
}

// BatchPollStates fetches PR state for every branch in one repo with a
// single `gh pr list` call rather than one `gh pr view` per branch,
// matching the original GetBatchPRStatesWithComments batching (one gh
// invocation per repo, not per session).
func (d *Driver) BatchPollStates(ctx context.Context, repoPath string, branches []string) (map[string]Status, error) {
	wanted := make(map[string]bool, len(branches))
	for _, b := range branches {
		wanted[b] = true
	}

	output, err := d.exec.Output(ctx, repoPath, "gh", "pr", "list",
		"--json", "headRefName,state,number,url,comments,reviews",
		"--state", "all",
		"--limit", "200",
	)
	if err != nil {
		return nil, fmt.Errorf("prdriver: gh pr list: %w", err)
	}

	var entries []prListEntry
	if err := json.Unmarshal(output, &entries); err != nil {
		return nil, fmt.Errorf("prdriver: parse gh pr list: %w", err)
	}

	results := make(map[string]Status, len(branches))
	for _, e := range entries {
		if !wanted[e.HeadRefName] {
			continue
		}
		results[e.HeadRefName] = Status{
			State:        e.State,
			Number:       e.Number,
			URL:          e.URL,
			CommentCount: len(e.Comments) + len(e.Reviews),
		}
	}
	return results, nil
}
