package system

import (
	"context"
	"sync"

	"github.com/kballard/go-shellquote"
)

// MockCommandRunner is a CommandRunner for testing purposes.
// It records every invocation and answers from a canned response function.
type MockCommandRunner struct {
	mu    sync.Mutex
	Calls [][]string

	// Respond, if set, produces the output and exit code for a call.
	Respond func(call int, argv []string) (output string, exitCode int)
}

// NewMockCommandRunner creates a MockCommandRunner that succeeds with no output.
func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{}
}

// Run records the invocation and returns the canned response.
func (m *MockCommandRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	argv := append([]string{name}, args...)

	m.mu.Lock()
	call := len(m.Calls)
	m.Calls = append(m.Calls, argv)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Result{ExitCode: -1}, err
	}

	res := Result{Command: shellquote.Join(argv...)}
	if m.Respond != nil {
		res.Output, res.ExitCode = m.Respond(call, argv)
	}
	if res.ExitCode != 0 {
		return res, &ExitError{Result: res}
	}
	return res, nil
}

// CallCount returns the number of recorded invocations.
func (m *MockCommandRunner) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
