// Package classify resolves a user message to one of the supported intents.
// The primary path asks the language model; a keyword table serves as
// fallback when the model is unavailable or answers off-vocabulary.
package classify

import (
	"context"
	"strings"
	"time"

	"github.com/hupe1980/shopagent/core"
	"github.com/hupe1980/shopagent/logging"
	"github.com/hupe1980/shopagent/model"
)

const classifyInstructions = `You are an intent classifier for an electronics store customer support system.
Classify the user message into exactly one of these intents:

- product_info: questions about product features, specifications, manuals, or usage
- order_status: questions about the status or whereabouts of an existing order
- complaint: the user is unhappy and reporting a problem with a product or service
- refund: the user wants to return a product or asks about a refund
- delivery: questions about shipping options, delivery times, or tracking
- comparison: the user wants to compare two or more products
- general: greetings, small talk, or anything that fits none of the above

Respond with ONLY the intent name, nothing else.`

// Options configure a Classifier.
type Options struct {
	MaxRetries uint64
	Timeout    time.Duration
	Logger     logging.Logger
}

// Classifier maps free-form user messages to intents.
type Classifier struct {
	model model.Model
	opts  Options
}

// New creates a model-backed classifier.
func New(m model.Model, optFns ...func(o *Options)) *Classifier {
	opts := Options{
		MaxRetries: 2,
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Classifier{model: m, opts: opts}
}

// Classify returns the intent for the message. Model failures and
// off-vocabulary answers both fall back to keyword matching, so Classify
// never returns an error for routing purposes.
func (c *Classifier) Classify(ctx context.Context, message string) core.Intent {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	var resp *model.Response
	err := core.RetryExternal(ctx, "model", c.opts.MaxRetries, func() error {
		var genErr error
		resp, genErr = c.model.Generate(ctx, model.Request{
			Instructions: classifyInstructions,
			Messages:     []core.Message{{Role: core.RoleUser, Content: message}},
		})
		return genErr
	})
	if err != nil {
		c.opts.Logger.Warn("Intent model unavailable, using keyword fallback", "error", err)
		return ClassifyByKeywords(message)
	}

	intent, ok := core.ParseIntent(resp.Text)
	if !ok {
		c.opts.Logger.Warn("Model answered off-vocabulary, using keyword fallback", "answer", resp.Text)
		return ClassifyByKeywords(message)
	}
	c.opts.Logger.Debug("Classified message", "intent", intent, "duration", time.Since(start))
	return intent
}

// keywordTable pairs each intent with its trigger phrases. Order matters:
// earlier intents win when a message matches several tables.
var keywordTable = []struct {
	intent   core.Intent
	keywords []string
}{
	{core.IntentOrderStatus, []string{"order", "ord-", "track my", "where is my", "shipped yet", "order status"}},
	{core.IntentComplaint, []string{"complaint", "complain", "broken", "defective", "not working", "doesn't work", "disappointed", "terrible", "unacceptable", "damaged"}},
	{core.IntentRefund, []string{"refund", "money back", "return", "cancel my order", "reimburse"}},
	{core.IntentDelivery, []string{"delivery", "deliver", "shipping", "ship", "arrive", "tracking", "courier"}},
	{core.IntentComparison, []string{"compare", "comparison", "versus", " vs ", "difference between", "which is better", "or the"}},
	{core.IntentProductInfo, []string{"product", "spec", "feature", "how do i", "how to", "manual", "warranty", "battery", "price", "does it"}},
}

// ClassifyByKeywords scans the keyword tables in priority order and returns
// the first matching intent, or general when nothing matches.
func ClassifyByKeywords(message string) core.Intent {
	lower := strings.ToLower(message)
	for _, entry := range keywordTable {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.intent
			}
		}
	}
	return core.IntentGeneral
}
