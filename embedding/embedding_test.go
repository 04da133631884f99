package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hupe1980/shopagent/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	t.Run("openai backend", func(t *testing.T) {
		p, err := NewProvider(config.EmbeddingConfig{Backend: config.BackendOpenAI, Model: "text-embedding-3-small"})
		require.NoError(t, err)
		assert.Equal(t, 1536, p.Dimension())
	})

	t.Run("ollama backend", func(t *testing.T) {
		p, err := NewProvider(config.EmbeddingConfig{Backend: config.BackendOllama, Model: "all-minilm"})
		require.NoError(t, err)
		assert.Equal(t, 384, p.Dimension())
	})

	t.Run("unknown backend rejected at construction", func(t *testing.T) {
		_, err := NewProvider(config.EmbeddingConfig{Backend: "faiss"})
		assert.Error(t, err)
	})
}

func TestOllamaProvider_EmbedBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/embeddings", r.URL.Path)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		// Answer out of order to verify index-based reassembly.
		resp := map[string]any{"data": []map[string]any{
			{"embedding": []float32{2, 2, 2}, "index": 1},
			{"embedding": []float32{1, 1, 1}, "index": 0},
		}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p := NewOllamaProvider(func(o *OllamaOptions) {
		o.BaseURL = srv.URL + "/v1"
		o.Model = "all-minilm"
	})

	vectors, err := p.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{1, 1, 1}, vectors[0])
	assert.Equal(t, []float32{2, 2, 2}, vectors[1])
}

func TestOllamaProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOllamaProvider(func(o *OllamaOptions) { o.BaseURL = srv.URL + "/v1" })

	_, err := p.EmbedBatch(context.Background(), []string{"a"})
	assert.ErrorContains(t, err, "status 404")
}

func TestOllamaProvider_EmptyInput(t *testing.T) {
	p := NewOllamaProvider()
	vectors, err := p.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}
