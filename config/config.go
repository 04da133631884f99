// Package config loads the shopagent configuration from an optional YAML file
// with environment variable overrides. Every field has a usable default so a
// bare process starts without any configuration at all.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EmbeddingBackend selects the embedding provider implementation. The backend
// is resolved once at construction time, never by fallback at call time.
type EmbeddingBackend string

const (
	// BackendOpenAI uses the OpenAI embeddings API.
	BackendOpenAI EmbeddingBackend = "openai"
	// BackendOllama uses a local Ollama server via its OpenAI-compatible API.
	BackendOllama EmbeddingBackend = "ollama"
)

// Valid reports whether the backend is one of the supported values.
func (b EmbeddingBackend) Valid() bool {
	return b == BackendOpenAI || b == BackendOllama
}

// ModelConfig configures the generative model used for classification and
// response composition.
type ModelConfig struct {
	Provider    string  `yaml:"provider"` // openai or anthropic
	Name        string  `yaml:"name"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int64   `yaml:"max_tokens"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	MaxRetries  uint64  `yaml:"max_retries"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	Backend     EmbeddingBackend `yaml:"backend"`
	Model       string           `yaml:"model"`
	BaseURL     string           `yaml:"base_url"` // ollama only
	TimeoutSecs int              `yaml:"timeout_secs"`
	BatchSize   int              `yaml:"batch_size"`
}

// RetrievalConfig configures document chunking and query defaults.
type RetrievalConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
	TopK         int `yaml:"top_k"`
}

// SessionConfig bounds conversation memory.
type SessionConfig struct {
	MaxHistory   int `yaml:"max_history"`
	TTLMinutes   int `yaml:"ttl_minutes"`
	SweepMinutes int `yaml:"sweep_minutes"`
}

// TTL returns the session idle expiry as a duration.
func (s SessionConfig) TTL() time.Duration { return time.Duration(s.TTLMinutes) * time.Minute }

// SweepInterval returns the eviction sweep interval as a duration.
func (s SessionConfig) SweepInterval() time.Duration {
	return time.Duration(s.SweepMinutes) * time.Minute
}

// Timeout returns the per-call model timeout as a duration.
func (m ModelConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSecs) * time.Second
}

// Config is the root application configuration.
type Config struct {
	HTTPPort    int             `yaml:"http_port"`
	DataDir     string          `yaml:"data_dir"`
	DatabaseURL string          `yaml:"database_url"`
	IndexPath   string          `yaml:"index_path"`
	LogLevel    string          `yaml:"log_level"`
	LogFormat   string          `yaml:"log_format"`
	Model       ModelConfig     `yaml:"model"`
	Embedding   EmbeddingConfig `yaml:"embedding"`
	Retrieval   RetrievalConfig `yaml:"retrieval"`
	Session     SessionConfig   `yaml:"session"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		HTTPPort:    8080,
		DataDir:     "./data",
		DatabaseURL: "file:shopagent.db?cache=shared&mode=rwc",
		IndexPath:   "./data/index.db",
		LogLevel:    "info",
		LogFormat:   "json",
		Model: ModelConfig{
			Provider:    "openai",
			Name:        "gpt-4o-mini",
			Temperature: 0.7,
			MaxTokens:   500,
			TimeoutSecs: 30,
			MaxRetries:  2,
		},
		Embedding: EmbeddingConfig{
			Backend:     BackendOpenAI,
			Model:       "text-embedding-3-small",
			TimeoutSecs: 60,
			BatchSize:   100,
		},
		Retrieval: RetrievalConfig{
			ChunkSize:    500,
			ChunkOverlap: 50,
			TopK:         3,
		},
		Session: SessionConfig{
			MaxHistory:   10,
			TTLMinutes:   30,
			SweepMinutes: 10,
		},
	}
}

// Load reads a config from path. A missing file returns defaults; a present
// but malformed file is an error. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field invariants that would otherwise surface as
// runtime corruption (overlap >= width breaks chunk progression).
func (c *Config) Validate() error {
	if !c.Embedding.Backend.Valid() {
		return fmt.Errorf("config: unknown embedding backend %q", c.Embedding.Backend)
	}
	if c.Retrieval.ChunkSize <= 0 {
		return fmt.Errorf("config: chunk_size must be positive, got %d", c.Retrieval.ChunkSize)
	}
	if c.Retrieval.ChunkOverlap < 0 || c.Retrieval.ChunkOverlap >= c.Retrieval.ChunkSize {
		return fmt.Errorf("config: chunk_overlap must satisfy 0 <= overlap < chunk_size, got %d", c.Retrieval.ChunkOverlap)
	}
	if c.Session.MaxHistory <= 0 {
		return fmt.Errorf("config: max_history must be positive, got %d", c.Session.MaxHistory)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.HTTPPort = getEnvInt("SHOPAGENT_HTTP_PORT", cfg.HTTPPort)
	cfg.DataDir = getEnv("SHOPAGENT_DATA_DIR", cfg.DataDir)
	cfg.DatabaseURL = getEnv("SHOPAGENT_DATABASE_URL", cfg.DatabaseURL)
	cfg.IndexPath = getEnv("SHOPAGENT_INDEX_PATH", cfg.IndexPath)
	cfg.LogLevel = getEnv("SHOPAGENT_LOG_LEVEL", cfg.LogLevel)
	cfg.Model.Provider = getEnv("SHOPAGENT_MODEL_PROVIDER", cfg.Model.Provider)
	cfg.Model.Name = getEnv("SHOPAGENT_MODEL_NAME", cfg.Model.Name)
	if v := os.Getenv("SHOPAGENT_EMBEDDING_BACKEND"); v != "" {
		cfg.Embedding.Backend = EmbeddingBackend(v)
	}
	cfg.Embedding.Model = getEnv("SHOPAGENT_EMBEDDING_MODEL", cfg.Embedding.Model)
	cfg.Embedding.BaseURL = getEnv("SHOPAGENT_OLLAMA_URL", cfg.Embedding.BaseURL)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
