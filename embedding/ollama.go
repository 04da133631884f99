package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ollamaDimensions maps common local embedding models to their output
// dimension.
var ollamaDimensions = map[string]int{
	"nomic-embed-text":  768,
	"mxbai-embed-large": 1024,
	"all-minilm":        384,
}

// OllamaOptions configure the local Ollama embedding provider.
type OllamaOptions struct {
	Model       string
	BaseURL     string
	TimeoutSecs int
}

// OllamaProvider implements Provider against an Ollama server's
// OpenAI-compatible embeddings endpoint.
type OllamaProvider struct {
	opts   OllamaOptions
	dim    int
	client *http.Client
}

type ollamaRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type ollamaResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewOllamaProvider creates a local embedding provider.
func NewOllamaProvider(optFns ...func(o *OllamaOptions)) *OllamaProvider {
	opts := OllamaOptions{
		Model:       "nomic-embed-text",
		BaseURL:     "http://localhost:11434/v1",
		TimeoutSecs: 120,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	dim, ok := ollamaDimensions[opts.Model]
	if !ok {
		dim = 768
	}

	return &OllamaProvider{
		opts:   opts,
		dim:    dim,
		client: &http.Client{Timeout: time.Duration(opts.TimeoutSecs) * time.Second},
	}
}

// Embed implements Provider.
func (p *OllamaProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch implements Provider.
func (p *OllamaProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	payload, err := json.Marshal(ollamaRequest{Input: texts, Model: p.opts.Model})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.opts.BaseURL+"/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("ollama error: %s", parsed.Error.Message)
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("ollama returned %d vectors for %d inputs", len(parsed.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, item := range parsed.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("ollama returned out-of-range index %d", item.Index)
		}
		vectors[item.Index] = item.Embedding
	}
	return vectors, nil
}

// Dimension implements Provider.
func (p *OllamaProvider) Dimension() int { return p.dim }
