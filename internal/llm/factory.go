package llm

import (
	"fmt"
	"strings"

	"github.com/psethzp/rosti/internal/model"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		// No provider configured - return nil (oracle disabled)
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.OracleConfig to llm.Config
func ConfigFromModel(oracle model.OracleConfig) Config {
	return Config{
		Provider:   oracle.Provider,
		Model:      oracle.Model,
		APIKey:     oracle.APIKey,
		BaseURL:    oracle.BaseURL,
		Timeout:    oracle.Timeout,
		MaxTokens:  oracle.MaxTokens,
		HTTPProxy:  oracle.HTTPProxy,
		HTTPSProxy: oracle.HTTPSProxy,
		NoProxy:    oracle.NoProxy,
	}
}
