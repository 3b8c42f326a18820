package llm

import (
	"context"
)

// MockAdvisorClient is a configurable mock for testing advisor functionality.
// Set the function fields to control behavior in tests.
type MockAdvisorClient struct {
	// GenerateResponseFunc is called when GenerateResponse is invoked.
	// If nil, returns empty string and nil error.
	GenerateResponseFunc func(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)

	// Model is returned by GetModel. Defaults to "mock-model".
	Model string

	// Endpoint is returned by GetEndpoint. Defaults to "http://mock-endpoint".
	Endpoint string

	// Call tracking for verification
	GenerateResponseCalls int
}

// NewMockAdvisorClient creates a new mock with sensible defaults.
func NewMockAdvisorClient() *MockAdvisorClient {
	return &MockAdvisorClient{
		Model:    "mock-model",
		Endpoint: "http://mock-endpoint",
	}
}

// GenerateResponse implements AdvisorClient.
func (m *MockAdvisorClient) GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error) {
	m.GenerateResponseCalls++
	if m.GenerateResponseFunc != nil {
		return m.GenerateResponseFunc(ctx, prompt, systemMessage, temperature)
	}
	return "", nil
}

// GetModel implements AdvisorClient.
func (m *MockAdvisorClient) GetModel() string {
	return m.Model
}

// GetEndpoint implements AdvisorClient.
func (m *MockAdvisorClient) GetEndpoint() string {
	return m.Endpoint
}

var _ AdvisorClient = (*MockAdvisorClient)(nil)
