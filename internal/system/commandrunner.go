package system

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/kballard/go-shellquote"
)

// Result captures a finished child process.
type Result struct {
	Command  string
	Output   string
	ExitCode int
	Duration time.Duration
}

// ExitError is returned when a command ran but exited non-zero.
type ExitError struct {
	Result Result
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with status %d: %s", e.Result.ExitCode, e.Result.Command)
}

// CommandRunner defines an interface for running system commands.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecCommandRunner executes commands directly, without a shell.
type ExecCommandRunner struct {
	// Timeout bounds each invocation. Zero means no limit.
	Timeout time.Duration
}

// NewCommandRunner returns a default command runner implementation.
func NewCommandRunner(timeout time.Duration) CommandRunner {
	return &ExecCommandRunner{Timeout: timeout}
}

// Run executes a command and returns its combined output and exit status.
func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	res := Result{Command: shellquote.Join(append([]string{name}, args...)...)}

	start := time.Now()
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	res.Duration = time.Since(start)
	res.Output = string(output)

	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		res.ExitCode = exitErr.ExitCode()
		return res, &ExitError{Result: res}
	}

	// Not started, or killed by a signal / context deadline
	res.ExitCode = -1
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, fmt.Errorf("command interrupted: %s: %w", res.Command, ctxErr)
	}
	return res, fmt.Errorf("failed to run %s: %w", name, err)
}

// CommandExists checks if a command is available in PATH
func CommandExists(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}
