package store

// Project is a durable record of a repository the user has opened at least
// once. Identified by absolute repository path.
type Project struct {
	ID           string `db:"id"`
	Path         string `db:"path"`
	DisplayName  string `db:"display_name"`
	IsFavorite   bool   `db:"is_favorite"`
	CreatedAt    int64  `db:"created_at"`
	UpdatedAt    int64  `db:"updated_at"`
	LastOpenedAt *int64 `db:"last_opened_at"`
}

// ProjectWithCounts is Project plus the session count used by the sidebar.
type ProjectWithCounts struct {
	Project
	SessionCount int `db:"session_count"`
}

// Status is the session's position in the state machine.
type Status string

const (
	StatusNew                  Status = "New"
	StatusInProgress           Status = "InProgress"
	StatusReview               Status = "Review"
	StatusCreatingPullRequest  Status = "CreatingPullRequest"
	StatusPullRequest          Status = "PullRequest"
	StatusDone                 Status = "Done"
)

// AgentKind is the trait-dispatched backend selector.
type AgentKind string

const (
	AgentClaude AgentKind = "claude"
	AgentGemini AgentKind = "gemini"
	AgentCodex  AgentKind = "codex"
)

// PermissionMode controls how aggressively the agent may act.
type PermissionMode string

const (
	PermissionReadOnly PermissionMode = "read-only"
	PermissionSuggest  PermissionMode = "suggest"
	PermissionWrite    PermissionMode = "write"
)

// PrState mirrors the pull-request driver's PrState.
type PrState string

const (
	PrOpen   PrState = "Open"
	PrMerged PrState = "Merged"
	PrClosed PrState = "Closed"
	PrFailed PrState = "Failed"
)

// Session is the durable record of one agent conversation bound to one
// worktree and branch.
type Session struct {
	ID             string  `db:"id"`
	ProjectID      string  `db:"project_id"`
	ParentID       *string `db:"parent_id"`
	Title          *string `db:"title"`
	Status         Status  `db:"status"`
	AgentKind      AgentKind `db:"agent_kind"`
	Model          string  `db:"model"`
	PermissionMode PermissionMode `db:"permission_mode"`
	BranchName     string  `db:"branch_name"`
	WorktreePath   *string `db:"worktree_path"`
	BaseCommit     string  `db:"base_commit"`
	PrURL          *string `db:"pr_url"`
	PrState        *string `db:"pr_state"`
	InputTokens    int64   `db:"input_tokens"`
	OutputTokens   int64   `db:"output_tokens"`
	DeletedAt      *int64  `db:"deleted_at"`
	CreatedAt      int64   `db:"created_at"`
	UpdatedAt      int64   `db:"updated_at"`
}

// SessionUsage is the accumulated per-(session, model) token ledger.
// Rows survive session deletion via ON DELETE SET NULL.
type SessionUsage struct {
	SessionID       *string `db:"session_id"`
	Model           string  `db:"model"`
	InputTokens     int64   `db:"input_tokens"`
	OutputTokens    int64   `db:"output_tokens"`
	InvocationCount int64   `db:"invocation_count"`
	CreatedAt       int64   `db:"created_at"`
}

// OperationKind enumerates the unit-of-work types a worker queue executes,
// plus OpWorktreeMissing, a pseudo-operation recorded directly in Failed
// state by the recovery reconciler rather than ever queued for execution.
type OperationKind string

const (
	OpPrompt          OperationKind = "Prompt"
	OpReply           OperationKind = "Reply"
	OpCreatePR        OperationKind = "CreatePR"
	OpPollMerge       OperationKind = "PollMerge"
	OpTitle           OperationKind = "Title"
	OpFocusedReview   OperationKind = "FocusedReview"
	OpWorktreeMissing OperationKind = "WorktreeMissing"
)

// OperationState is the lifecycle of one in-flight operation.
type OperationState string

const (
	OpPending   OperationState = "Pending"
	OpRunning   OperationState = "Running"
	OpCompleted OperationState = "Completed"
	OpFailed    OperationState = "Failed"
)

// Operation is the durable record of one unit of work, persisted so that a
// crash mid-execution can be reconciled on restart.
type Operation struct {
	ID         string         `db:"id"`
	SessionID  string         `db:"session_id"`
	Kind       OperationKind  `db:"kind"`
	Payload    string         `db:"payload"`
	State      OperationState `db:"state"`
	Error      *string        `db:"error"`
	StartedAt  *int64         `db:"started_at"`
	FinishedAt *int64         `db:"finished_at"`
	CreatedAt  int64          `db:"created_at"`
	UpdatedAt  int64          `db:"updated_at"`
}

// SessionFilter narrows ListSessions. A zero-value filter matches every
// non-deleted session in the project.
type SessionFilter struct {
	Status          Status
	IncludeDeleted  bool
}
