package embedding

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

// openAIDimensions maps supported OpenAI embedding models to their output
// dimension.
var openAIDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// OpenAIOptions configure the OpenAI embedding provider.
type OpenAIOptions struct {
	Model     string
	BatchSize int
}

// OpenAIProvider implements Provider using the OpenAI embeddings API.
type OpenAIProvider struct {
	client *openai.Client
	opts   OpenAIOptions
	dim    int
}

// NewOpenAIProvider creates a provider using the official client.
func NewOpenAIProvider(optFns ...func(o *OpenAIOptions)) *OpenAIProvider {
	client := openai.NewClient()
	return NewOpenAIProviderFromClient(&client, optFns...)
}

// NewOpenAIProviderFromClient creates a provider from an existing client.
func NewOpenAIProviderFromClient(client *openai.Client, optFns ...func(o *OpenAIOptions)) *OpenAIProvider {
	opts := OpenAIOptions{
		Model:     "text-embedding-3-small",
		BatchSize: 100,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	dim, ok := openAIDimensions[opts.Model]
	if !ok {
		dim = 1536
	}

	return &OpenAIProvider{client: client, opts: opts, dim: dim}
}

// Embed implements Provider.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch implements Provider. Inputs beyond the batch size are split into
// sequential API calls; output order matches input order.
func (p *OpenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += p.opts.BatchSize {
		end := start + p.opts.BatchSize
		if end > len(texts) {
			end = len(texts)
		}

		resp, err := p.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts[start:end]},
			Model: p.opts.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embeddings error: %w", err)
		}
		if len(resp.Data) != end-start {
			return nil, fmt.Errorf("openai embeddings returned %d vectors for %d inputs", len(resp.Data), end-start)
		}

		for _, item := range resp.Data {
			vec := make([]float32, len(item.Embedding))
			for i, v := range item.Embedding {
				vec[i] = float32(v)
			}
			vectors = append(vectors, vec)
		}
	}
	return vectors, nil
}

// Dimension implements Provider.
func (p *OpenAIProvider) Dimension() int { return p.dim }
