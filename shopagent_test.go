package shopagent

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shopagent/config"
	"github.com/hupe1980/shopagent/core"
	"github.com/hupe1980/shopagent/model"
)

type unitEmbedder struct{}

func (unitEmbedder) Embed(context.Context, string) ([]float32, error) { return []float32{1, 0}, nil }

func (unitEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (unitEmbedder) Dimension() int { return 2 }

func TestAgentEndToEnd(t *testing.T) {
	dir := t.TempDir()

	seed := `{
		"products": [{"id": 3, "name": "SmartWatch Pro", "category": "wearables", "price": 299.99, "rating": 4.5}],
		"orders": [{"id": "ORD-1001", "status": "shipped", "items": ["SmartWatch Pro"], "total": 299.99,
			"ordered_at": "2026-08-20T10:00:00Z", "estimated_delivery": "2026-09-05T10:00:00Z"}]
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seed.json"), []byte(seed), 0o644))
	faqs := `[{"question": "How long does shipping take?", "answer": "3 to 5 business days."}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "faqs.json"), []byte(faqs), 0o644))

	cfg := config.Default()
	cfg.DataDir = dir
	cfg.DatabaseURL = filepath.Join(dir, "agent.db")
	cfg.IndexPath = filepath.Join(dir, "index.db")

	m := model.NewMockModel()
	m.AddResponse("Where is my order ORD-1001?", "order_status")

	agent, err := New(func(o *Options) {
		o.Config = cfg
		o.Model = m
		o.Embedder = unitEmbedder{}
	})
	require.NoError(t, err)
	defer agent.Close()

	require.NoError(t, agent.Init(context.Background()))

	resp := agent.Chat(context.Background(), core.ChatRequest{
		Message:   "Where is my order ORD-1001?",
		SessionID: "s1",
	})
	assert.Equal(t, core.IntentOrderStatus, resp.Intent)
	assert.Contains(t, resp.Response, "ORD-1001 is currently shipped")

	stats := agent.Orchestrator().IndexStats()
	assert.Equal(t, 1, stats.Entries)
}

func TestAgentServerRoutes(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.DataDir = dir
	cfg.DatabaseURL = filepath.Join(dir, "agent.db")
	cfg.IndexPath = filepath.Join(dir, "index.db")

	agent, err := New(func(o *Options) {
		o.Config = cfg
		o.Model = model.NewMockModel()
		o.Embedder = unitEmbedder{}
	})
	require.NoError(t, err)
	defer agent.Close()
	require.NoError(t, agent.Init(context.Background()))

	e := agent.Server()
	routes := make(map[string]bool)
	for _, r := range e.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	assert.True(t, routes["POST /api/chat"])
	assert.True(t, routes["GET /api/products/:id"])
	assert.True(t, routes["GET /health"])
}
