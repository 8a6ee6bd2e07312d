package utils

import (
	"context"
	"strings"
)

// MockRunner records calls and returns preconfigured responses.
// Use this in tests to avoid real shell execution.
// Each recorded call starts with the binary followed by its args.
// Set RunFn for dynamic per-call responses, otherwise Out/Err are returned.
type MockRunner struct {
	Calls [][]string
	Out   string
	Err   error
	RunFn func(cmd []string) (string, error)
}

func (m *MockRunner) Run(_ context.Context, bin string, args ...string) (string, error) {
	cmd := append([]string{bin}, args...)
	m.Calls = append(m.Calls, cmd)
	if m.RunFn != nil {
		return m.RunFn(cmd)
	}
	return m.Out, m.Err
}

// Commands returns every recorded call joined with spaces.
func (m *MockRunner) Commands() []string {
	out := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		out[i] = strings.Join(c, " ")
	}
	return out
}
