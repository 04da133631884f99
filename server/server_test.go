package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shopagent/catalog"
	"github.com/hupe1980/shopagent/classify"
	"github.com/hupe1980/shopagent/composer"
	"github.com/hupe1980/shopagent/handler"
	"github.com/hupe1980/shopagent/model"
	"github.com/hupe1980/shopagent/orchestrator"
	"github.com/hupe1980/shopagent/retrieval"
	"github.com/hupe1980/shopagent/session"
	"github.com/hupe1980/shopagent/store"
)

type fixedEmbedder struct{}

func (fixedEmbedder) Embed(context.Context, string) ([]float32, error) { return []float32{1, 0}, nil }

func (fixedEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (fixedEmbedder) Dimension() int { return 2 }

func newTestServer(t *testing.T, classifyModel, composeModel *model.MockModel) *httptest.Server {
	t.Helper()
	dir := t.TempDir()

	s, err := store.NewSQLiteStore(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	seed := `{
		"products": [
			{"id": 3, "name": "SmartWatch Pro", "category": "wearables", "price": 299.99, "rating": 4.5},
			{"id": 7, "name": "FitBand Lite", "category": "wearables", "price": 99.99, "rating": 4.1}
		],
		"orders": [
			{"id": "ORD-1001", "status": "shipped", "items": ["SmartWatch Pro"], "total": 299.99,
			 "ordered_at": "2026-08-20T10:00:00Z", "estimated_delivery": "2026-09-05T10:00:00Z"}
		]
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seed.json"), []byte(seed), 0o644))
	require.NoError(t, s.Seed(dir))

	graph, err := catalog.BuildGraph(context.Background(), s)
	require.NoError(t, err)

	pipeline := retrieval.NewPipeline(fixedEmbedder{}, filepath.Join(dir, "index.db"))
	require.NoError(t, pipeline.Build(context.Background(), []retrieval.Document{
		{Title: "SmartWatch Pro Manual", Content: "The SmartWatch Pro battery lasts 48 hours.", DocType: "product_manuals"},
	}))

	orch := orchestrator.New(
		session.NewStore(),
		classify.New(classifyModel),
		pipeline,
		composer.New(composeModel),
		orchestrator.Handlers{
			Order:      handler.NewOrderHandler(s),
			Complaint:  handler.NewComplaintHandler(s),
			Refund:     handler.NewRefundHandler(s),
			Delivery:   handler.NewDeliveryHandler(s),
			Comparison: handler.NewComparisonHandler(graph),
		},
	)

	e := New(NewHandler(orch, s, graph))
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url, body string, out any) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, model.NewMockModel(), model.NewMockModel())

	var body map[string]string
	code := getJSON(t, srv.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestChatEndpoint(t *testing.T) {
	classifyModel := model.NewMockModel()
	classifyModel.AddResponse("Where is my order ORD-1234?", "order_status")
	srv := newTestServer(t, classifyModel, model.NewMockModel())

	var body map[string]any
	code := postJSON(t, srv.URL+"/api/chat", `{"message":"Where is my order ORD-1234?","session_id":"s1"}`, &body)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "order_status", body["intent"])
	assert.Equal(t, "Order ORD-1234 not found. Please check the order ID.", body["response"])
}

func TestChatEndpointValidation(t *testing.T) {
	srv := newTestServer(t, model.NewMockModel(), model.NewMockModel())

	code := postJSON(t, srv.URL+"/api/chat", `{"session_id":"s1"}`, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestProductEndpoints(t *testing.T) {
	srv := newTestServer(t, model.NewMockModel(), model.NewMockModel())

	var list map[string]any
	code := getJSON(t, srv.URL+"/api/products", &list)
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, list["count"])

	var product map[string]any
	code = getJSON(t, srv.URL+"/api/products/3", &product)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "SmartWatch Pro", product["name"])

	code = getJSON(t, srv.URL+"/api/products/42", nil)
	assert.Equal(t, http.StatusNotFound, code)

	var cmp map[string]any
	code = getJSON(t, srv.URL+"/api/products/compare?ids=3,7", &cmp)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, cmp["recommendation"], "SmartWatch Pro")

	code = getJSON(t, srv.URL+"/api/products/compare?ids=3", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestOrderAndRefundEndpoints(t *testing.T) {
	srv := newTestServer(t, model.NewMockModel(), model.NewMockModel())

	var order map[string]any
	code := getJSON(t, srv.URL+"/api/orders/ORD-1001", &order)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "shipped", order["status"])

	code = getJSON(t, srv.URL+"/api/orders/ORD-9999", nil)
	assert.Equal(t, http.StatusNotFound, code)

	var complaint map[string]any
	code = postJSON(t, srv.URL+"/api/complaints", `{"order_id":"ORD-1001","details":"cracked screen"}`, &complaint)
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "CMP-101", complaint["id"])

	code = getJSON(t, srv.URL+"/api/refunds/ORD-1001", nil)
	assert.Equal(t, http.StatusNotFound, code)

	var refund map[string]any
	code = postJSON(t, srv.URL+"/api/refunds/ORD-1001", "", &refund)
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "REF-101", refund["id"])

	code = getJSON(t, srv.URL+"/api/refunds/ORD-1001", &refund)
	assert.Equal(t, http.StatusOK, code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, model.NewMockModel(), model.NewMockModel())

	var body map[string]any
	code := getJSON(t, srv.URL+"/api/metrics", &body)
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["index_entries"])
	assert.EqualValues(t, 2, body["products"])
}
