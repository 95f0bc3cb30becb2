package manager

import (
	"fmt"

	"github.com/zhubert/plural-orchestrator/internal/store"
)

// transitionKey pairs a (from, to) status pair for the legal-transitions
// lookup table.
type transitionKey struct {
	From store.Status
	To   store.Status
}

// legalTransitions is the status transition table verbatim: a plain map
// rather than a generic FSM library dependency, favoring small pure
// functions over a state-machine package.
var legalTransitions = map[transitionKey]string{
	{store.StatusNew, store.StatusInProgress}:                 "first prompt submitted",
	{store.StatusInProgress, store.StatusReview}:               "agent response completed",
	{store.StatusReview, store.StatusInProgress}:                "reply submitted",
	{store.StatusReview, store.StatusCreatingPullRequest}:       "pr creation started",
	{store.StatusReview, store.StatusDone}:                      "local merge succeeded",
	{store.StatusCreatingPullRequest, store.StatusPullRequest}:  "pr created",
	{store.StatusCreatingPullRequest, store.StatusReview}:       "pr creation failed",
	{store.StatusPullRequest, store.StatusDone}:                 "pr merged remotely",
	{store.StatusPullRequest, store.StatusReview}:               "pr closed without merge",
}

// Transition validates a status change. It returns an error without
// mutating anything if (from, to) is not in legalTransitions — the
// reducer logs and rejects rather than applying an illegal StatusChanged
// event, per the "state is not mutated" requirement.
func Transition(from, to store.Status) error {
	if from == to {
		return fmt.Errorf("manager: no-op transition %s -> %s", from, to)
	}
	if _, ok := legalTransitions[transitionKey{from, to}]; !ok {
		return fmt.Errorf("manager: illegal transition %s -> %s", from, to)
	}
	return nil
}
