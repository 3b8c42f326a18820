// Package llm provides clients for the AI learning-advisor endpoint.
package llm

import (
	"context"
)

// AdvisorClient defines the interface for advisor completions.
// Use this interface for dependency injection to enable mocking in tests.
type AdvisorClient interface {
	// GenerateResponse generates a chat completion response.
	GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)

	// GetModel returns the configured model name.
	GetModel() string

	// GetEndpoint returns the configured endpoint.
	GetEndpoint() string
}

// Ensure both clients implement AdvisorClient at compile time.
var (
	_ AdvisorClient = (*Client)(nil)
	_ AdvisorClient = (*AnthropicClient)(nil)
)
