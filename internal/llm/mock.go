package llm

import (
	"context"
	"sync"
)

// MockClient is a scriptable test implementation of the Client interface.
// Responses are consumed in order; once the script is exhausted the last
// entry repeats.
type MockClient struct {
	mu        sync.Mutex
	responses []MockResponse
	calls     []Request
}

// MockResponse is one scripted completion outcome.
type MockResponse struct {
	Err  error
	Text string
}

// NewMockClient creates a mock client with a scripted response sequence.
func NewMockClient(responses ...MockResponse) *MockClient {
	return &MockClient{responses: responses}
}

// Complete returns the next scripted response and records the request.
func (m *MockClient) Complete(_ context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)

	if len(m.responses) == 0 {
		return "", nil
	}
	idx := len(m.calls) - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	r := m.responses[idx]
	return r.Text, r.Err
}

// Calls returns a copy of the recorded requests.
func (m *MockClient) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}
