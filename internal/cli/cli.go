// Package cli checks that the external command-line tools the session
// manager shells out to (git, gh, and the supported agent CLIs) are
// present on PATH before the app starts taking commands. Reconstructed
// from cmd/root.go and main.go's cli.DefaultPrerequisites /
// cli.ValidateRequired / cli.CheckAll / cli.FormatCheckResults call
// sites, which reference this package without it being present in the
// retrieval pack.
package cli

import (
	"fmt"
	"os/exec"
	"strings"
)

// Prerequisite is one external tool the app depends on.
type Prerequisite struct {
	Name        string
	Command     string
	Required    bool
	InstallHint string
}

// CheckResult is the outcome of checking one Prerequisite.
type CheckResult struct {
	Prerequisite Prerequisite
	Found        bool
	Path         string
}

// DefaultPrerequisites lists every external tool the manager may invoke:
// git and gh are always required (the worktree manager and PR driver
// both shell out to them); the agent CLIs are each optional since a
// session only needs the one backend it was created with.
func DefaultPrerequisites() []Prerequisite {
	return []Prerequisite{
		{Name: "git", Command: "git", Required: true, InstallHint: "install git (https://git-scm.com)"},
		{Name: "GitHub CLI", Command: "gh", Required: true, InstallHint: "install gh (https://cli.github.com)"},
		{Name: "Claude Code", Command: "claude", Required: false, InstallHint: "install the claude CLI to use claude-backed sessions"},
		{Name: "Gemini CLI", Command: "gemini", Required: false, InstallHint: "install the gemini CLI to use gemini-backed sessions"},
		{Name: "Codex CLI", Command: "codex", Required: false, InstallHint: "install the codex CLI to use codex-backed sessions"},
	}
}

// Check resolves one Prerequisite against PATH.
func Check(p Prerequisite) CheckResult {
	path, err := exec.LookPath(p.Command)
	return CheckResult{Prerequisite: p, Found: err == nil, Path: path}
}

// CheckAll checks every prerequisite in order.
func CheckAll(prereqs []Prerequisite) []CheckResult {
	results := make([]CheckResult, len(prereqs))
	for i, p := range prereqs {
		results[i] = Check(p)
	}
	return results
}

// ValidateRequired fails if any Required prerequisite is missing,
// collecting every missing tool into one error so the user sees the
// whole list at once rather than fixing them one at a time.
func ValidateRequired(prereqs []Prerequisite) error {
	var missing []string
	for _, p := range prereqs {
		if !p.Required {
			continue
		}
		if res := Check(p); !res.Found {
			missing = append(missing, fmt.Sprintf("%s (%s): %s", p.Name, p.Command, p.InstallHint))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required prerequisites:\n  %s", strings.Join(missing, "\n  "))
}

// FormatCheckResults renders CheckAll's output as the `prereqs` command's
// report.
func FormatCheckResults(results []CheckResult) string {
	var b strings.Builder
	b.WriteString("Prerequisite check:\n")
	for _, r := range results {
		status := "MISSING"
		if r.Found {
			status = "OK"
		}
		required := ""
		if r.Prerequisite.Required {
			required = " (required)"
		}
		fmt.Fprintf(&b, "  [%s] %s%s", status, r.Prerequisite.Name, required)
		if r.Found {
			fmt.Fprintf(&b, " -> %s", r.Path)
		} else {
			fmt.Fprintf(&b, " -- %s", r.Prerequisite.InstallHint)
		}
		b.WriteString("\n")
	}
	return b.String()
}
