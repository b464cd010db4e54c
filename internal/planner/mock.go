package planner

import "context"

// MockCompleter is a test double for the completion capability.
type MockCompleter struct {
	Response   string
	Err        error
	Calls      int
	LastPrompt string // captures the last prompt for inspection
}

func (m *MockCompleter) Complete(_ context.Context, prompt string) (string, error) {
	m.Calls++
	m.LastPrompt = prompt
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
