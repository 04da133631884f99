// Package composer assembles the final natural-language answer. Ready-made
// handler messages pass through verbatim; everything else is rendered by the
// generative model from a fixed persona, labeled context sections, and a
// bounded window of conversation history.
package composer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/shopagent/core"
	"github.com/hupe1980/shopagent/handler"
	"github.com/hupe1980/shopagent/logging"
	"github.com/hupe1980/shopagent/model"
)

const persona = "You are a helpful AI assistant for TechPro Electronics, " +
	"an electronics e-commerce company. Provide accurate, friendly, " +
	"and concise responses. Use the provided context to answer questions. " +
	"If you don't have enough information, ask for clarification."

// limitedModeResponse is returned when the generative model is unreachable
// and no ready-made handler message exists.
const limitedModeResponse = "I'm currently operating in limited mode and can't generate a full answer. " +
	"Please try again shortly."

// Options configure a Composer.
type Options struct {
	HistoryWindow int
	MaxTokens     int64
	MaxRetries    uint64
	Timeout       time.Duration
	Logger        logging.Logger
}

// Composer turns a handler result plus conversation history into response
// text.
type Composer struct {
	model model.Model
	opts  Options
}

// New creates a composer backed by the given generative model.
func New(m model.Model, optFns ...func(o *Options)) *Composer {
	opts := Options{
		HistoryWindow: 6,
		MaxTokens:     500,
		MaxRetries:    2,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Composer{model: m, opts: opts}
}

// Compose renders the response for a handler result. Clarify, NotFound, and
// Found short-circuit to their carried message; Context and ComparisonResult
// go through the model.
func (c *Composer) Compose(ctx context.Context, res handler.Result, message string, history []core.Message) (string, error) {
	switch r := res.(type) {
	case handler.Clarify:
		return r.Message, nil
	case handler.NotFound:
		return r.Message, nil
	case handler.Found:
		return r.Message, nil
	case handler.Context:
		return c.generate(ctx, contextSection(r.Context), message, history)
	case handler.ComparisonResult:
		return c.generate(ctx, comparisonSection(r), message, history)
	default:
		return "", fmt.Errorf("unsupported handler result %T", res)
	}
}

func contextSection(text string) string {
	if text == "" {
		return ""
	}
	return "Relevant Information:\n" + text
}

func comparisonSection(r handler.ComparisonResult) string {
	var b strings.Builder
	names := make([]string, len(r.Comparison.Products))
	for i, p := range r.Comparison.Products {
		names[i] = p.Name
	}
	fmt.Fprintf(&b, "Comparing products: %s\n\n", strings.Join(names, ", "))
	for _, row := range r.Comparison.Features {
		fmt.Fprintf(&b, "%s:", row.Feature)
		for _, name := range names {
			fmt.Fprintf(&b, " %s=%s", name, row.Values[name])
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nRecommendation: %s", r.Comparison.Recommendation)
	return b.String()
}

func (c *Composer) generate(ctx context.Context, section, message string, history []core.Message) (string, error) {
	window := history
	if len(window) > c.opts.HistoryWindow {
		window = window[len(window)-c.opts.HistoryWindow:]
	}

	messages := make([]core.Message, 0, len(window)+2)
	messages = append(messages, window...)
	if section != "" {
		messages = append(messages, core.Message{
			Role:    core.RoleSystem,
			Content: "Context for answering:\n" + section,
		})
	}
	messages = append(messages, core.Message{Role: core.RoleUser, Content: message})

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
			Instructions: persona,
			Messages:     messages,
			MaxTokens:    c.opts.MaxTokens,
		})
		return genErr
	})
	if al, ok := c.opts.Logger.(*logging.AgentLogger); ok {
		al.LogModelCall(c.model.Info().Name, time.Since(start), err == nil, err)
	}
	if err != nil {
		c.opts.Logger.Warn("Generative model unavailable, answering in limited mode", "error", err)
		return limitedModeResponse, nil
	}
	return strings.TrimSpace(resp.Text), nil
}
