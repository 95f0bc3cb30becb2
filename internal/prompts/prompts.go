// Package prompts implements placeholder-substituted prompt templates:
// plain text with `{{ prompt }}`, `{{ session_summary }}`, and
// `{{ focused_review_diff }}` as the only recognized placeholders,
// generalized from the original workflow.ResolveSystemPrompt file-or-
// literal resolution into a pure string-template substitution.
package prompts

import "strings"

// Vars holds the substitution values for one Render call. Only the
// fields a given template references need to be set.
type Vars struct {
	Prompt          string
	SessionSummary  string
	FocusedReviewDiff string
}

const (
	promptPlaceholder        = "{{ prompt }}"
	sessionSummaryPlaceholder = "{{ session_summary }}"
	focusedDiffPlaceholder    = "{{ focused_review_diff }}"
)

// TitlePrompt asks the agent to produce a short, single-line session
// title summarizing the work done so far.
const TitlePrompt = `Summarize this coding session in a single short title (no more than 8 words, no trailing punctuation).

Session summary:
{{ session_summary }}`

// FocusedReviewPrompt asks the agent to review only the hunk supplied as
// focused_review_diff, rather than the whole worktree diff.
const FocusedReviewPrompt = `Review the following diff hunk. Point out correctness issues only; do not restate what the change does.

{{ focused_review_diff }}`

// Render substitutes every recognized placeholder in tmpl with the
// corresponding Vars field. Unset fields substitute to the empty string,
// matching the original tolerance for partially-supplied templates.
func Render(tmpl string, v Vars) string {
	r := strings.NewReplacer(
		promptPlaceholder, v.Prompt,
		sessionSummaryPlaceholder, v.SessionSummary,
		focusedDiffPlaceholder, v.FocusedReviewDiff,
	)
	return r.Replace(tmpl)
}
