// Package workflow loads a project's .plural.yml policy file: per-repo
// defaults for agent kind, model, and permission mode, plus an
// auto-create-PR trigger, consulted when a session is created and when a
// turn lands in review.
package workflow

import "github.com/zhubert/plural-orchestrator/internal/store"

// Policy is one repository's .plural.yml overrides. Any zero-valued field
// leaves the process-wide config.Config default in effect.
type Policy struct {
	AgentKind      store.AgentKind      `yaml:"agent_kind"`
	Model          string               `yaml:"model"`
	PermissionMode store.PermissionMode `yaml:"permission_mode"`

	// AutoCreatePR triggers create_pr as soon as a session reaches Review,
	// skipping the manual "p" keybinding for repos that want every turn to
	// open a PR immediately.
	AutoCreatePR bool `yaml:"auto_create_pr"`
}
