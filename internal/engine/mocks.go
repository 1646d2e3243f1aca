package engine

import (
	"context"
	"sync"

	"github.com/marlowe-fi/centsible/internal/model"
	"github.com/marlowe-fi/centsible/internal/synthesis"
)

// MockSynthesizer is a test implementation of the Synthesizer interface.
// It returns a fixed result and records the inputs it was called with.
type MockSynthesizer struct {
	Result *synthesis.Result
	inputs []synthesis.Input
	mu     sync.Mutex
}

// NewMockSynthesizer creates a mock returning the given result.
func NewMockSynthesizer(result *synthesis.Result) *MockSynthesizer {
	return &MockSynthesizer{Result: result}
}

// Synthesize records the input and returns the scripted result.
func (m *MockSynthesizer) Synthesize(_ context.Context, in synthesis.Input) *synthesis.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, in)
	return m.Result
}

// Inputs returns a copy of the recorded inputs.
func (m *MockSynthesizer) Inputs() []synthesis.Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]synthesis.Input(nil), m.inputs...)
}

// MockSummaryUpdater is a test implementation of the SummaryUpdater
// interface that appends the message like the degraded path does.
type MockSummaryUpdater struct {
	mu    sync.Mutex
	calls int
}

// Update appends the check-in message to the current summary.
func (m *MockSummaryUpdater) Update(_ context.Context, current string, checkIn *model.CheckIn, _ *model.FinancialState) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if current == "" {
		return model.ClampSummary(checkIn.Message)
	}
	return model.ClampSummary(current + "\n" + checkIn.Message)
}

// Calls returns how many times Update ran.
func (m *MockSummaryUpdater) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
