package llm

import (
	"context"
	"fmt"
)

// Provider defines the interface for LLM oracle backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Judge asks the model whether the evidence supports the claim
	Judge(ctx context.Context, req JudgeRequest) (*Judgment, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// JudgeRequest carries one claim/evidence pair to the oracle
type JudgeRequest struct {
	// ClaimText is the assertion under review
	ClaimText string

	// EvidenceText is the quoted passage cited in its support
	EvidenceText string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// Judgment is the oracle's parsed answer for one pair
type Judgment struct {
	Verdict       string  `json:"verdict"`    // Supported, Weak, or Contradicted
	Confidence    float64 `json:"confidence"` // 0..1
	Justification string  `json:"justification,omitempty"`

	// Model is the model that produced the judgment
	Model string `json:"model,omitempty"`

	// TokensUsed tracks token consumption
	TokensUsed int `json:"tokens_used,omitempty"`

	// Raw is the exact model output, kept for replay and debugging
	Raw string `json:"raw,omitempty"`
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   30,
		MaxTokens: 512,
	}
}

const judgeSystemPrompt = "You are a careful fact-checking assistant. Judge only the evidence you are given and answer in strict JSON."

// BuildJudgePrompt constructs the default prompt for one claim/evidence pair.
// The model is asked for a bare JSON object so the response parses without
// heuristics; the parser still tolerates surrounding prose.
func BuildJudgePrompt(claimText, evidenceText string) string {
	return fmt.Sprintf(`You are reviewing whether a quoted piece of evidence supports a factual claim.

Claim:
%s

Evidence:
%s

Classify the relationship as exactly one of: Supported, Weak, Contradicted.
- Supported: the evidence directly backs the claim.
- Weak: the evidence is related but does not establish the claim.
- Contradicted: the evidence conflicts with the claim.

Respond with only a JSON object, no other text:
{"verdict": "<Supported|Weak|Contradicted>", "confidence": <0.0-1.0>, "justification": "<one sentence>"}`, claimText, evidenceText)
}
