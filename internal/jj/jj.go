// Package jj reads repository state from a Jujutsu workspace by shelling
// out to the jj CLI.
package jj

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ErrNoWorkspace is returned by Open when the path is not inside a jj
// workspace.
var ErrNoWorkspace = errors.New("not inside a jj workspace")

// Runner executes a jj command in a directory and returns its stdout.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) ([]byte, error)
}

// ExecRunner runs the real jj binary.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "jj", args...)
	cmd.Dir = dir

	out, err := cmd.Output()
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return nil, fmt.Errorf("jj %v: %s", args, ee.Stderr)
		}
		return nil, fmt.Errorf("jj %v: %w", args, err)
	}
	return out, nil
}

// FindRoot walks upward from path looking for a .jj directory.
func FindRoot(path string) (string, bool) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	for {
		if info, err := os.Stat(filepath.Join(dir, ".jj")); err == nil && info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Open locates the workspace containing path.
func Open(path string) (*Workspace, error) {
	root, ok := FindRoot(path)
	if !ok {
		return nil, ErrNoWorkspace
	}
	return NewWorkspace(root, ExecRunner{}), nil
}

// NewWorkspace returns a workspace rooted at root using the given runner.
// Tests inject a fake runner with canned jj output.
func NewWorkspace(root string, runner Runner) *Workspace {
	return &Workspace{root: root, runner: runner}
}
