package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cyberpath-academy/learning-engine/pkg/config"
)

// NewAdvisorClient creates an advisor client for the configured provider.
// Returns AdvisorClient interface to enable dependency injection of mocks.
func NewAdvisorClient(cfg *config.AdvisorConfig, logger *zap.Logger) (AdvisorClient, error) {
	clientCfg := &Config{
		Endpoint: cfg.Endpoint,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
	}

	switch cfg.Provider {
	case "openai":
		return NewClient(clientCfg, logger)
	case "anthropic":
		return NewAnthropicClient(clientCfg, logger)
	default:
		return nil, fmt.Errorf("unknown advisor provider: %s", cfg.Provider)
	}
}
