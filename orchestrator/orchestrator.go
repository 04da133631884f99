// Package orchestrator sequences one chat turn end to end: record the user
// message, classify intent, route to the matching handler or the retrieval
// pipeline, compose the final answer, and record the assistant turn. Failures
// anywhere inside the turn degrade to an apology response instead of
// surfacing to the caller.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/shopagent/classify"
	"github.com/hupe1980/shopagent/composer"
	"github.com/hupe1980/shopagent/core"
	"github.com/hupe1980/shopagent/handler"
	"github.com/hupe1980/shopagent/logging"
	"github.com/hupe1980/shopagent/retrieval"
	"github.com/hupe1980/shopagent/session"
	"github.com/hupe1980/shopagent/vectorindex"
)

const apologyResponse = "I apologize, but I encountered an error processing your request. " +
	"Please try again or rephrase your question."

// clarifyMessages are the literal prompts for a missing order identifier,
// per intent.
var clarifyMessages = map[core.Intent]string{
	core.IntentOrderStatus: "Please provide your order ID (format: ORD-XXXX) to check status.",
	core.IntentComplaint:   "Please provide your order ID (format: ORD-XXXX) to file a complaint.",
	core.IntentRefund:      "Please provide your order ID (format: ORD-XXXX) to check refund status.",
	core.IntentDelivery:    "Please provide your order ID (format: ORD-XXXX) to track delivery.",
}

// Handlers bundles the domain collaborators the orchestrator routes to.
type Handlers struct {
	Order      *handler.OrderHandler
	Complaint  *handler.ComplaintHandler
	Refund     *handler.RefundHandler
	Delivery   *handler.DeliveryHandler
	Comparison *handler.ComparisonHandler
}

// Options configure an Orchestrator.
type Options struct {
	TopK        int
	GeneralTopK int
	Logger      logging.Logger
}

// Orchestrator is the top-level coordinator owning session memory, the
// classifier, the handler set, the retrieval pipeline, and the composer.
type Orchestrator struct {
	sessions   *session.Store
	classifier *classify.Classifier
	pipeline   *retrieval.Pipeline
	composer   *composer.Composer
	handlers   Handlers
	opts       Options
}

// New creates an orchestrator.
func New(sessions *session.Store, classifier *classify.Classifier, pipeline *retrieval.Pipeline, comp *composer.Composer, handlers Handlers, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		TopK:        3,
		GeneralTopK: 2,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{
		sessions:   sessions,
		classifier: classifier,
		pipeline:   pipeline,
		composer:   comp,
		handlers:   handlers,
		opts:       opts,
	}
}

// Process handles one chat turn. Turns on the same session are serialized;
// distinct sessions proceed concurrently. Process never returns an error:
// failures inside the turn produce an apology response tagged with the error
// intent, with the failure detail carried only in metadata.
func (o *Orchestrator) Process(ctx context.Context, req core.ChatRequest) *core.ChatResponse {
	var resp *core.ChatResponse
	sess := o.sessions.With(req.SessionID, func(sess *session.Session) {
		resp = o.processTurn(ctx, sess, req.Message)
	})
	resp.Metadata["session_id"] = sess.ID
	return resp
}

func (o *Orchestrator) processTurn(ctx context.Context, sess *session.Session, message string) (resp *core.ChatResponse) {
	invocationID := core.NewID()
	log := o.opts.Logger
	log.Info("Processing message", "invocation_id", invocationID, "session_id", sess.ID)

	sess.Append(core.Message{Role: core.RoleUser, Content: message})

	defer func() {
		if r := recover(); r != nil {
			log.Error("Turn failed", "invocation_id", invocationID, "panic", fmt.Sprint(r))
			resp = o.failed(sess, fmt.Sprintf("panic: %v", r))
		}
	}()

	intent := o.classifier.Classify(ctx, message)
	log.Debug("Classified", "invocation_id", invocationID, "intent", intent)

	routeStart := time.Now()
	res, metadata, err := o.route(ctx, intent, message)
	if al, ok := log.(*logging.AgentLogger); ok {
		al.LogHandlerCall(string(intent), time.Since(routeStart), err == nil, err)
	}
	if err != nil {
		log.Error("Handler failed", "invocation_id", invocationID, "intent", intent, "error", err)
		return o.failed(sess, err.Error())
	}

	// history excludes the just-appended user turn; the composer adds the
	// current message itself
	history := sess.Recent(len(sess.Messages) - 1)

	text, err := o.composer.Compose(ctx, res, message, history)
	if err != nil {
		log.Error("Composition failed", "invocation_id", invocationID, "error", err)
		return o.failed(sess, err.Error())
	}

	sess.Append(core.Message{Role: core.RoleAssistant, Content: text})

	if metadata == nil {
		metadata = map[string]any{}
	}
	return &core.ChatResponse{
		Response: text,
		Intent:   intent,
		Sources:  resultSources(res),
		Metadata: metadata,
	}
}

// failed records nothing further (the user turn is already in the session)
// and emits the generic apology.
func (o *Orchestrator) failed(sess *session.Session, detail string) *core.ChatResponse {
	sess.Append(core.Message{Role: core.RoleAssistant, Content: apologyResponse})
	return &core.ChatResponse{
		Response: apologyResponse,
		Intent:   core.IntentError,
		Metadata: map[string]any{"error": detail},
	}
}

// route maps the intent to exactly one handler path.
func (o *Orchestrator) route(ctx context.Context, intent core.Intent, message string) (handler.Result, map[string]any, error) {
	switch intent {
	case core.IntentOrderStatus, core.IntentComplaint, core.IntentRefund, core.IntentDelivery:
		orderID := classify.ExtractOrderID(message)
		if orderID == "" {
			return handler.Clarify{Message: clarifyMessages[intent]}, nil, nil
		}
		return o.routeOrder(ctx, intent, orderID, message)

	case core.IntentComparison:
		ids := classify.ExtractProductIDs(message)
		if len(ids) < 2 {
			return o.retrieve(ctx, message, o.opts.TopK, "Product Information")
		}
		res, err := o.handlers.Comparison.Compare(ids)
		if err != nil {
			return nil, nil, err
		}
		return res, map[string]any{"product_ids": ids}, nil

	case core.IntentProductInfo:
		return o.retrieve(ctx, message, o.opts.TopK, "Product Information")

	case core.IntentGeneral, core.IntentError:
		return o.retrieve(ctx, message, o.opts.GeneralTopK, "Information")

	default:
		return o.retrieve(ctx, message, o.opts.GeneralTopK, "Information")
	}
}

func (o *Orchestrator) routeOrder(ctx context.Context, intent core.Intent, orderID, message string) (handler.Result, map[string]any, error) {
	var (
		res handler.Result
		err error
	)
	switch intent {
	case core.IntentOrderStatus:
		res, err = o.handlers.Order.Status(ctx, orderID)
	case core.IntentComplaint:
		res, err = o.handlers.Complaint.File(ctx, orderID, message)
	case core.IntentRefund:
		res, err = o.handlers.Refund.Handle(ctx, orderID, message)
	case core.IntentDelivery:
		res, err = o.handlers.Delivery.Track(ctx, orderID)
	}
	if err != nil {
		return nil, nil, err
	}
	return res, map[string]any{"order_id": orderID}, nil
}

// retrieve runs the retrieval path and packages the chunks as labeled
// context for the composer.
func (o *Orchestrator) retrieve(ctx context.Context, message string, topK int, defaultSource string) (handler.Result, map[string]any, error) {
	results, err := o.pipeline.Retrieve(ctx, message, topK)
	if err != nil {
		return nil, nil, err
	}

	parts := make([]string, 0, len(results))
	sources := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, r.Text)
		title := r.Metadata["title"]
		if title == "" {
			title = defaultSource
		}
		sources = append(sources, title)
	}

	text := "No specific information found."
	if len(parts) > 0 {
		text = strings.Join(parts, "\n\n")
	}
	return handler.Context{
		Context: text,
		Sources: sources,
	}, map[string]any{"num_results": len(results)}, nil
}

func resultSources(res handler.Result) []string {
	if c, ok := res.(handler.Context); ok {
		return c.Sources
	}
	return nil
}

// SetComparisonHandler installs the comparison collaborator. The catalog
// graph is built during initialization, after the orchestrator exists.
func (o *Orchestrator) SetComparisonHandler(h *handler.ComparisonHandler) {
	o.handlers.Comparison = h
}

// IndexStats exposes the retrieval index stats for the metrics surface.
func (o *Orchestrator) IndexStats() vectorindex.Stats { return o.pipeline.Stats() }

// SessionCount reports the number of live sessions.
func (o *Orchestrator) SessionCount() int { return o.sessions.Len() }
