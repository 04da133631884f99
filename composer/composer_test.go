package composer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shopagent/catalog"
	"github.com/hupe1980/shopagent/core"
	"github.com/hupe1980/shopagent/handler"
	"github.com/hupe1980/shopagent/model"
	"github.com/hupe1980/shopagent/store"
)

func TestComposeShortCircuits(t *testing.T) {
	m := model.NewMockModel()
	m.FailWith(errors.New("must not be called"))
	c := New(m)
	ctx := context.Background()

	tests := []struct {
		name string
		res  handler.Result
		want string
	}{
		{"Clarify", handler.Clarify{Message: "Please provide your order ID."}, "Please provide your order ID."},
		{"NotFound", handler.NotFound{Message: "Order ORD-1234 not found."}, "Order ORD-1234 not found."},
		{"Found", handler.Found{Message: "Order ORD-1001 is currently shipped."}, "Order ORD-1001 is currently shipped."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Compose(ctx, tt.res, "irrelevant", nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComposeContext(t *testing.T) {
	m := model.NewMockModel()
	m.AddResponse("what is the battery life?", "The battery lasts 48 hours.")
	c := New(m)

	got, err := c.Compose(context.Background(), handler.Context{
		Context: "SmartWatch Pro battery: 48h",
		Sources: []string{"SmartWatch Pro Manual"},
	}, "what is the battery life?", []core.Message{
		{Role: core.RoleUser, Content: "hello"},
		{Role: core.RoleAssistant, Content: "Hi, how can I help?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "The battery lasts 48 hours.", got)
}

func TestComposeComparison(t *testing.T) {
	m := model.NewMockModel()
	m.AddResponse("compare 3 and 7", "The SmartWatch Pro is the better pick.")
	c := New(m)

	res := handler.ComparisonResult{
		ProductIDs: []int{3, 7},
		Comparison: &catalog.Comparison{
			Products: []store.Product{
				{ID: 3, Name: "SmartWatch Pro", Rating: 4.5},
				{ID: 7, Name: "FitBand Lite", Rating: 4.1},
			},
			Recommendation: "We recommend the SmartWatch Pro.",
		},
	}
	got, err := c.Compose(context.Background(), res, "compare 3 and 7", nil)
	require.NoError(t, err)
	assert.Equal(t, "The SmartWatch Pro is the better pick.", got)
}

func TestComposeLimitedMode(t *testing.T) {
	m := model.NewMockModel()
	m.FailWith(errors.New("rate limited"))
	c := New(m, func(o *Options) { o.MaxRetries = 0 })

	got, err := c.Compose(context.Background(), handler.Context{Context: "anything"}, "question", nil)
	require.NoError(t, err)
	assert.Contains(t, got, "limited mode")
}
