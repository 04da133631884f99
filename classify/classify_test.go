package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/shopagent/core"
	"github.com/hupe1980/shopagent/model"
)

func TestClassify(t *testing.T) {
	t.Run("ModelAnswer", func(t *testing.T) {
		m := model.NewMockModel()
		m.AddResponse("Where is my package?", "order_status")
		c := New(m)

		assert.Equal(t, core.IntentOrderStatus, c.Classify(context.Background(), "Where is my package?"))
	})

	t.Run("ModelAnswerNormalized", func(t *testing.T) {
		m := model.NewMockModel()
		m.AddResponse("I want my money back", "  Refund\n")
		c := New(m)

		assert.Equal(t, core.IntentRefund, c.Classify(context.Background(), "I want my money back"))
	})

	t.Run("OffVocabularyFallsBack", func(t *testing.T) {
		m := model.NewMockModel()
		m.AddResponse("compare 3 and 7", "I think this is a comparison request")
		c := New(m)

		assert.Equal(t, core.IntentComparison, c.Classify(context.Background(), "compare 3 and 7"))
	})

	t.Run("OffVocabularyWithoutKeywordsIsGeneral", func(t *testing.T) {
		m := model.NewMockModel()
		m.AddResponse("hi, nice weather today", "Happy to help with anything you need!")
		c := New(m)

		// a wordy answer lands on the message's own evidence, and a
		// keyword-free message lands on general
		assert.Equal(t, core.IntentGeneral, c.Classify(context.Background(), "hi, nice weather today"))
	})

	t.Run("ModelFailureFallsBack", func(t *testing.T) {
		m := model.NewMockModel()
		m.FailWith(errors.New("rate limited"))
		c := New(m, func(o *Options) { o.MaxRetries = 0 })

		assert.Equal(t, core.IntentDelivery, c.Classify(context.Background(), "how long does shipping take?"))
	})
}

func TestClassifyByKeywords(t *testing.T) {
	tests := []struct {
		message string
		want    core.Intent
	}{
		{"Where is my order ORD-1234?", core.IntentOrderStatus},
		{"this thing arrived broken", core.IntentComplaint},
		{"I want a refund for this", core.IntentRefund},
		{"when will it arrive?", core.IntentDelivery},
		{"what is the difference between these two?", core.IntentComparison},
		{"does it have a warranty?", core.IntentProductInfo},
		{"hello there", core.IntentGeneral},
		// order status outranks refund when both match
		{"I want to return my order", core.IntentOrderStatus},
		// complaint outranks refund
		{"broken item, give me a refund", core.IntentComplaint},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyByKeywords(tt.message), tt.message)
	}
}

func TestExtractOrderID(t *testing.T) {
	assert.Equal(t, "ORD-1234", ExtractOrderID("Where is my order ORD-1234?"))
	assert.Equal(t, "ORD-0042", ExtractOrderID("status of ord-0042 please"))
	assert.Equal(t, "", ExtractOrderID("where is my order?"))
	assert.Equal(t, "", ExtractOrderID("ORD-12345 is too long"))
}

func TestExtractProductIDs(t *testing.T) {
	assert.Equal(t, []int{3, 7}, ExtractProductIDs("compare 3 and 7"))
	assert.Equal(t, []int{42}, ExtractProductIDs("tell me about product 42 and 42 again"))
	assert.Nil(t, ExtractProductIDs("product 999 does not exist"))
	assert.Nil(t, ExtractProductIDs("where is ORD-1234?"))
	assert.Equal(t, []int{5}, ExtractProductIDs("ORD-1234 and product 5"))
}
