// Package embedding converts text into fixed-dimension vectors for similarity
// search. Two interchangeable backends exist: the OpenAI embeddings API and a
// local Ollama server. Callers select the backend explicitly via configuration
// at construction time; both are indistinguishable behind the Provider
// interface apart from their dimension.
package embedding

import (
	"context"
	"fmt"

	"github.com/hupe1980/shopagent/config"
)

// Provider generates embeddings. Dimension is constant for the lifetime of an
// instance; EmbedBatch preserves input order.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// NewProvider resolves the configured backend. Unknown backends are rejected
// here rather than falling back silently at call time.
func NewProvider(cfg config.EmbeddingConfig) (Provider, error) {
	switch cfg.Backend {
	case config.BackendOpenAI:
		return NewOpenAIProvider(func(o *OpenAIOptions) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			if cfg.BatchSize > 0 {
				o.BatchSize = cfg.BatchSize
			}
		}), nil
	case config.BackendOllama:
		return NewOllamaProvider(func(o *OllamaOptions) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			if cfg.BaseURL != "" {
				o.BaseURL = cfg.BaseURL
			}
			if cfg.TimeoutSecs > 0 {
				o.TimeoutSecs = cfg.TimeoutSecs
			}
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding backend: %q", cfg.Backend)
	}
}
