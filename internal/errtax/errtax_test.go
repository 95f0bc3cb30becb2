package errtax

import (
	"errors"
	"fmt"
	"testing"
)

func TestCategoryOf(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"transient", NewTransient("prdriver", base), Transient},
		{"operation", NewOperation("queue", base), Operation},
		{"data", NewData("store", base), Data},
		{"environmental", NewEnvironmental("cli", base), Environmental},
		{"fatal", NewFatal("store", base), Fatal},
		{"unclassified defaults to operation", base, Operation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategoryOf(tt.err); got != tt.want {
				t.Errorf("CategoryOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := NewEnvironmental("cli", errors.New("git not found"))
	if !Is(err, Environmental) {
		t.Errorf("expected Is(err, Environmental) to be true")
	}
	if Is(err, Fatal) {
		t.Errorf("expected Is(err, Fatal) to be false")
	}
	if Is(errors.New("plain"), Operation) {
		t.Errorf("plain errors should never report a category match")
	}
}

func TestErrorUnwrap(t *testing.T) {
	base := errors.New("underlying")
	wrapped := NewOperation("worktree", base)

	if !errors.Is(wrapped, base) {
		t.Errorf("expected wrapped error to unwrap to base")
	}
}

func TestErrorMessage(t *testing.T) {
	err := NewData("store", errors.New("unique constraint failed"))
	got := err.Error()
	want := fmt.Sprintf("[%s:%s] %v", Data, "store", "unique constraint failed")
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"fatal", NewFatal("store", errors.New("x")), 2},
		{"data", NewData("store", errors.New("x")), 3},
		{"operation", NewOperation("queue", errors.New("x")), 1},
		{"plain", errors.New("x"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
