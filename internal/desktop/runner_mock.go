package desktop

import (
	"context"
	"strings"
)

// Call records one invocation of a MockRunner.
type Call struct {
	Name string
	Args []string
}

// String renders the call as a command line.
func (c Call) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// MockRunner is a Runner for tests. It records every call and answers from
// RunFunc when set, or with empty output otherwise.
type MockRunner struct {
	RunFunc func(ctx context.Context, name string, args ...string) ([]byte, error)
	Calls   []Call
}

// NewMockRunner creates a MockRunner that succeeds with empty output.
func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

// Run records the call and delegates to RunFunc.
func (m *MockRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.Calls = append(m.Calls, Call{Name: name, Args: append([]string(nil), args...)})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.RunFunc != nil {
		return m.RunFunc(ctx, name, args...)
	}
	return nil, nil
}

// CallCount returns how many commands were run.
func (m *MockRunner) CallCount() int {
	return len(m.Calls)
}

// LastCall returns the most recent call, or the zero Call.
func (m *MockRunner) LastCall() Call {
	if len(m.Calls) == 0 {
		return Call{}
	}
	return m.Calls[len(m.Calls)-1]
}
