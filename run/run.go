// Package run executes external tools as discrete argument vectors.
// Commands are never composed as interpolated shell strings, so repository,
// package and channel names containing shell metacharacters are passed
// through verbatim.
package run

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner is the process-invocation seam of the orchestrator. Implementations
// must block until the command exits and return a non-nil error for any
// nonzero exit status.
type Runner interface {
	// Run executes name with args in dir, streaming the command's output to
	// the calling process's stdout and stderr. An empty dir runs the command
	// in the current directory.
	Run(dir, name string, args ...string) error

	// Output executes name with args in dir and returns the command's
	// combined stdout and stderr.
	Output(dir, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(dir, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", display(name, args), err)
	}
	return nil
}

// Output implements Runner.
func (ExecRunner) Output(dir, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s: %w", display(name, args), err)
	}
	return out, nil
}

// display renders a command line for error messages only.
func display(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
