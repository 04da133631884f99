package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shopagent/core"
	"github.com/hupe1980/shopagent/store"
)

type fakeStore struct {
	store.Store
	products []store.Product
}

func (f *fakeStore) ListProducts(context.Context) ([]store.Product, error) {
	return f.products, nil
}

func testGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := BuildGraph(context.Background(), &fakeStore{products: []store.Product{
		{ID: 3, Name: "SmartWatch Pro", Category: "wearables", Price: 299.99, Rating: 4.5,
			Features: map[string]string{"battery": "48h", "waterproof": "yes"}},
		{ID: 7, Name: "FitBand Lite", Category: "wearables", Price: 99.99, Rating: 4.1,
			Features: map[string]string{"battery": "120h"}},
		{ID: 12, Name: "Noise Buds", Category: "audio", Price: 149.99, Rating: 4.7},
	}})
	require.NoError(t, err)
	return g
}

func TestGraphRelated(t *testing.T) {
	g := testGraph(t)

	assert.Equal(t, []int{7}, g.Related(3))
	assert.Equal(t, []int{3}, g.Related(7))
	assert.Empty(t, g.Related(12))
	assert.Equal(t, 3, g.Len())
}

func TestCompare(t *testing.T) {
	g := testGraph(t)

	cmp, err := g.Compare([]int{3, 7})
	require.NoError(t, err)

	require.Len(t, cmp.Products, 2)
	assert.Equal(t, "SmartWatch Pro", cmp.Products[0].Name)
	assert.Equal(t, "FitBand Lite", cmp.Products[1].Name)

	require.GreaterOrEqual(t, len(cmp.Features), 4)
	assert.Equal(t, "price", cmp.Features[0].Feature)
	assert.Equal(t, "$299.99", cmp.Features[0].Values["SmartWatch Pro"])
	assert.Equal(t, "rating", cmp.Features[1].Feature)

	var waterproof *FeatureRow
	for i := range cmp.Features {
		if cmp.Features[i].Feature == "waterproof" {
			waterproof = &cmp.Features[i]
		}
	}
	require.NotNil(t, waterproof)
	assert.Equal(t, "yes", waterproof.Values["SmartWatch Pro"])
	assert.Equal(t, "N/A", waterproof.Values["FitBand Lite"])

	// SmartWatch Pro has the highest rating of the pair
	assert.Contains(t, cmp.Recommendation, "SmartWatch Pro")
	assert.Contains(t, cmp.Recommendation, "4.5")
}

func TestCompareErrors(t *testing.T) {
	g := testGraph(t)

	_, err := g.Compare([]int{3})
	var ve *core.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = g.Compare([]int{3, 99})
	var nf *core.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "product", nf.Kind)
}
