package worktree

import (
	"bytes"
	"context"
	"os/exec"
)

// Executor runs git (and gh) commands against a working directory. Every
// mutating operation in this package goes through it so tests can inject a
// fake instead of shelling out, matching the original swappable
// CommandExecutor pattern.
type Executor interface {
	// Run executes name with args in dir and returns stdout, stderr, error.
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr []byte, err error)
	// Output executes name with args in dir and returns stdout only.
	Output(ctx context.Context, dir, name string, args ...string) ([]byte, error)
	// CombinedOutput executes name with args in dir and returns combined
	// stdout+stderr, which most git error paths want to surface verbatim.
	CombinedOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// RealExecutor shells out via os/exec.
type RealExecutor struct{}

// NewRealExecutor returns an Executor backed by the real git/gh binaries.
func NewRealExecutor() *RealExecutor { return &RealExecutor{} }

func (RealExecutor) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

func (RealExecutor) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.Output()
}

func (RealExecutor) CombinedOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}
