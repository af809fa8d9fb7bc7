package llmprovider

import (
	"context"
	"fmt"

	"github.com/owlsentry/browserguard/pkg/intent"
)

// MockProvider is a deterministic test double: if Err is set it returns
// Err on every call; otherwise it returns the script entry matching the
// call count, or an error once the script is exhausted, so planner tests
// never depend on a live model.
type MockProvider struct {
	Responses []Response
	Err       error
	calls     int
}

// GeneratePlan returns the next scripted response in order.
func (m *MockProvider) GeneratePlan(ctx context.Context, systemPrompt, userPrompt, schema string, i intent.Intent) (Response, error) {
	if m.Err != nil {
		return Response{}, m.Err
	}
	if m.calls >= len(m.Responses) {
		return Response{}, fmt.Errorf("llmprovider: mock script exhausted after %d calls", m.calls)
	}
	resp := m.Responses[m.calls]
	m.calls++
	return resp, nil
}

// Calls reports how many times GeneratePlan has been invoked.
func (m *MockProvider) Calls() int { return m.calls }
