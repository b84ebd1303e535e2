package search

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/psethzp/rosti/internal/model"
)

// Embedder turns text into a vector for similarity ranking
type Embedder interface {
	// Name returns the backend name
	Name() string

	// Embed returns the vector for one piece of text
	Embed(ctx context.Context, text string) ([]float32, error)
}

// NewEmbedder selects the embedding backend from configuration. An empty
// provider means the deterministic offline embedder; apiKey and baseURL
// only apply to remote backends.
func NewEmbedder(cfg model.SearchConfig, apiKey, baseURL string) (Embedder, error) {
	switch strings.ToLower(cfg.EmbedProvider) {
	case "":
		return DeterministicEmbedder{}, nil

	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("openai embeddings require an API key")
		}
		return NewOpenAIEmbedder(apiKey, baseURL, cfg.EmbedModel), nil

	default:
		return nil, fmt.Errorf("unknown embed provider: %s (supported: openai, or empty for deterministic)", cfg.EmbedProvider)
	}
}

// DeterministicEmbedder derives a 32-dimension vector from the sha256
// digest of the text. It carries no semantics; it exists so the search
// path runs with no external service, and identical text always maps to
// the same vector.
type DeterministicEmbedder struct{}

// Name returns the backend name
func (DeterministicEmbedder) Name() string { return "deterministic" }

// Embed returns the digest-derived vector for text
func (DeterministicEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	digest := sha256.Sum256([]byte(text))
	vec := make([]float32, len(digest))
	for i, b := range digest {
		vec[i] = float32(b) / 255.0
	}
	return vec, nil
}

// OpenAIEmbedder embeds text with OpenAI's embeddings API
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder creates an OpenAI-backed embedder
func NewOpenAIEmbedder(apiKey, baseURL, embedModel string) *OpenAIEmbedder {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	if embedModel == "" {
		embedModel = string(openai.SmallEmbedding3)
	}
	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(clientConfig),
		model:  embedModel,
	}
}

// Name returns the backend name
func (e *OpenAIEmbedder) Name() string { return "openai" }

// Embed returns the embedding vector for text
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI embeddings error: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding in OpenAI response")
	}
	return resp.Data[0].Embedding, nil
}
