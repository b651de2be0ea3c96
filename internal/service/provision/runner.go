package provision

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// CommandRunner executes external package manager commands. The production
// implementation delegates to exec; tests substitute a recording fake.
type CommandRunner interface {
	// Run executes the command and waits for completion. extraEnv entries are
	// appended to the inherited environment.
	Run(ctx context.Context, extraEnv []string, name string, args ...string) error
}

// execRunner runs commands through os/exec, streaming package manager output
// to the console as the underlying tools produce it.
type execRunner struct{}

// NewExecRunner returns the CommandRunner used outside of tests.
func NewExecRunner() CommandRunner {
	return execRunner{}
}

// Run implements CommandRunner.
func (execRunner) Run(ctx context.Context, extraEnv []string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), extraEnv...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	return nil
}
