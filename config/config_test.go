package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, BackendOpenAI, cfg.Embedding.Backend)
	assert.Equal(t, 500, cfg.Retrieval.ChunkSize)
	assert.Equal(t, 50, cfg.Retrieval.ChunkOverlap)
	assert.Equal(t, 10, cfg.Session.MaxHistory)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
http_port: 9000
embedding:
  backend: ollama
  model: all-minilm
retrieval:
  chunk_size: 400
  chunk_overlap: 40
  top_k: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.Equal(t, BackendOllama, cfg.Embedding.Backend)
	assert.Equal(t, "all-minilm", cfg.Embedding.Model)
	assert.Equal(t, 400, cfg.Retrieval.ChunkSize)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	// Untouched sections keep defaults.
	assert.Equal(t, "gpt-4o-mini", cfg.Model.Name)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("SHOPAGENT_HTTP_PORT", "7070")
	t.Setenv("SHOPAGENT_EMBEDDING_BACKEND", "ollama")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.HTTPPort)
	assert.Equal(t, BackendOllama, cfg.Embedding.Backend)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults are valid", func(c *Config) {}, true},
		{"unknown backend", func(c *Config) { c.Embedding.Backend = "faiss" }, false},
		{"overlap equals width", func(c *Config) { c.Retrieval.ChunkOverlap = c.Retrieval.ChunkSize }, false},
		{"negative overlap", func(c *Config) { c.Retrieval.ChunkOverlap = -1 }, false},
		{"zero chunk size", func(c *Config) { c.Retrieval.ChunkSize = 0 }, false},
		{"zero history", func(c *Config) { c.Session.MaxHistory = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
