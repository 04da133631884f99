// Package shopagent provides a high-level façade over the conversational
// support agent for an electronics storefront. Most applications interact
// with this package by:
//  1. Creating an Agent via New() (optionally overriding the default config,
//     models, or embedding provider)
//  2. Calling Init() once to seed the store and build or restore the
//     retrieval index
//  3. Calling Chat() per conversational turn, or mounting Server() for the
//     HTTP surface
//
// The façade wires the store, catalog graph, retrieval pipeline, classifier,
// composer, and orchestrator together while keeping setup concise. Defaults
// are safe for local development; production deployments supply real model
// credentials and a structured logger.
package shopagent

import (
	"context"
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/labstack/echo/v4"

	"github.com/hupe1980/shopagent/catalog"
	"github.com/hupe1980/shopagent/classify"
	"github.com/hupe1980/shopagent/composer"
	"github.com/hupe1980/shopagent/config"
	"github.com/hupe1980/shopagent/core"
	"github.com/hupe1980/shopagent/embedding"
	"github.com/hupe1980/shopagent/handler"
	"github.com/hupe1980/shopagent/logging"
	"github.com/hupe1980/shopagent/model"
	"github.com/hupe1980/shopagent/model/anthropic"
	"github.com/hupe1980/shopagent/model/openai"
	"github.com/hupe1980/shopagent/orchestrator"
	"github.com/hupe1980/shopagent/retrieval"
	"github.com/hupe1980/shopagent/server"
	"github.com/hupe1980/shopagent/session"
	"github.com/hupe1980/shopagent/store"
)

// Options configures the Agent.
type Options struct {
	// Config supplies tunables for retrieval, sessions, and the HTTP port.
	Config *config.Config

	// Model overrides the generative model used for classification and
	// composition. Defaults to the OpenAI chat backend from Config.
	Model model.Model

	// Embedder overrides the embedding provider. Defaults to the backend
	// selected in Config.
	Embedder embedding.Provider

	// Store overrides the domain record store. Defaults to SQLite at
	// Config.DatabaseURL.
	Store store.Store

	// Logger defaults to the NoOp logger if nil.
	Logger logging.Logger
}

// Agent is the assembled conversational support agent.
type Agent struct {
	opts     Options
	store    store.Store
	graph    *catalog.Graph
	pipeline *retrieval.Pipeline
	orch     *orchestrator.Orchestrator
}

// New assembles an Agent. Unset collaborators are built from the config.
func New(optFns ...func(o *Options)) (*Agent, error) {
	opts := Options{
		Config: config.Default(),
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	cfg := opts.Config

	if opts.Model == nil {
		switch cfg.Model.Provider {
		case "anthropic":
			opts.Model = anthropic.NewModel(func(o *anthropic.Options) {
				if cfg.Model.Name != "" {
					o.Model = anthropicsdk.Model(cfg.Model.Name)
				}
				o.Temperature = cfg.Model.Temperature
				o.MaxTokens = cfg.Model.MaxTokens
			})
		case "openai", "":
			opts.Model = openai.NewModel(func(o *openai.Options) {
				o.Model = cfg.Model.Name
				o.Temperature = cfg.Model.Temperature
				o.MaxCompletionTokens = cfg.Model.MaxTokens
			})
		default:
			return nil, fmt.Errorf("unknown model provider %q", cfg.Model.Provider)
		}
	}

	if opts.Embedder == nil {
		provider, err := embedding.NewProvider(cfg.Embedding)
		if err != nil {
			return nil, fmt.Errorf("embedding provider: %w", err)
		}
		opts.Embedder = provider
	}

	if opts.Store == nil {
		s, err := store.NewSQLiteStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		opts.Store = s
	}

	pipeline := retrieval.NewPipeline(opts.Embedder, cfg.IndexPath, func(o *retrieval.Options) {
		o.ChunkSize = cfg.Retrieval.ChunkSize
		o.ChunkOverlap = cfg.Retrieval.ChunkOverlap
		o.TopK = cfg.Retrieval.TopK
		o.Logger = opts.Logger
	})

	sessions := session.NewStore(func(o *session.Options) {
		o.MaxHistory = cfg.Session.MaxHistory
		o.TTL = cfg.Session.TTL()
		o.Sweep = cfg.Session.SweepInterval()
	})

	return &Agent{
		opts:     opts,
		store:    opts.Store,
		pipeline: pipeline,
		orch: orchestrator.New(
			sessions,
			classify.New(opts.Model, func(o *classify.Options) {
				o.MaxRetries = cfg.Model.MaxRetries
				o.Timeout = cfg.Model.Timeout()
				o.Logger = opts.Logger
			}),
			pipeline,
			composer.New(opts.Model, func(o *composer.Options) {
				o.MaxTokens = cfg.Model.MaxTokens
				o.MaxRetries = cfg.Model.MaxRetries
				o.Timeout = cfg.Model.Timeout()
				o.Logger = opts.Logger
			}),
			orchestrator.Handlers{
				Order:     handler.NewOrderHandler(opts.Store),
				Complaint: handler.NewComplaintHandler(opts.Store),
				Refund:    handler.NewRefundHandler(opts.Store),
				Delivery:  handler.NewDeliveryHandler(opts.Store),
			},
			func(o *orchestrator.Options) {
				o.TopK = cfg.Retrieval.TopK
				o.Logger = opts.Logger
			},
		),
	}, nil
}

// Init seeds the store, builds the catalog graph, and builds or restores the
// retrieval index from DataDir. Call it once before Chat or Server.
func (a *Agent) Init(ctx context.Context) error {
	if s, ok := a.store.(*store.SQLiteStore); ok {
		if err := s.Seed(a.opts.Config.DataDir); err != nil {
			return fmt.Errorf("seed store: %w", err)
		}
	}

	graph, err := catalog.BuildGraph(ctx, a.store)
	if err != nil {
		return err
	}
	a.graph = graph
	a.orch.SetComparisonHandler(handler.NewComparisonHandler(graph))

	if err := a.pipeline.Init(ctx, a.opts.Config.DataDir); err != nil {
		return fmt.Errorf("init retrieval pipeline: %w", err)
	}
	return nil
}

// Chat runs one conversational turn.
func (a *Agent) Chat(ctx context.Context, req core.ChatRequest) *core.ChatResponse {
	return a.orch.Process(ctx, req)
}

// Ingest rebuilds the retrieval index from the document collections in dir,
// reporting per-document progress through onDocument when non-nil.
func (a *Agent) Ingest(ctx context.Context, dir string, onDocument func(done, total int)) error {
	docs, err := retrieval.LoadCollections(dir)
	if err != nil {
		return err
	}
	if onDocument != nil {
		a.pipeline.SetProgress(onDocument)
	}
	return a.pipeline.Build(ctx, docs)
}

// Server returns the HTTP surface with all routes mounted.
func (a *Agent) Server() *echo.Echo {
	return server.New(server.NewHandler(a.orch, a.store, a.graph))
}

// Orchestrator exposes the underlying orchestrator.
func (a *Agent) Orchestrator() *orchestrator.Orchestrator { return a.orch }

// Close releases the store.
func (a *Agent) Close() error {
	return a.store.Close()
}
