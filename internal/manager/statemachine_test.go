package manager

import (
	"testing"

	"github.com/zhubert/plural-orchestrator/internal/store"
)

func TestTransitionLegalPaths(t *testing.T) {
	cases := []struct {
		from, to store.Status
	}{
		{store.StatusNew, store.StatusInProgress},
		{store.StatusInProgress, store.StatusReview},
		{store.StatusReview, store.StatusInProgress},
		{store.StatusReview, store.StatusCreatingPullRequest},
		{store.StatusReview, store.StatusDone},
		{store.StatusCreatingPullRequest, store.StatusPullRequest},
		{store.StatusCreatingPullRequest, store.StatusReview},
		{store.StatusPullRequest, store.StatusDone},
		{store.StatusPullRequest, store.StatusReview},
	}
	for _, c := range cases {
		if err := Transition(c.from, c.to); err != nil {
			t.Errorf("Transition(%s, %s) error = %v, want nil", c.from, c.to, err)
		}
	}
}

func TestTransitionRejectsIllegalPath(t *testing.T) {
	if err := Transition(store.StatusNew, store.StatusDone); err == nil {
		t.Fatal("Transition(New, Done) error = nil, want error for a skipped-state jump")
	}
	if err := Transition(store.StatusDone, store.StatusNew); err == nil {
		t.Fatal("Transition(Done, New) error = nil, want error; Done is terminal")
	}
}

func TestTransitionRejectsNoOp(t *testing.T) {
	if err := Transition(store.StatusReview, store.StatusReview); err == nil {
		t.Fatal("Transition(Review, Review) error = nil, want error for a no-op transition")
	}
}
