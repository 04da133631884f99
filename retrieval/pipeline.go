package retrieval

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/shopagent/core"
	"github.com/hupe1980/shopagent/embedding"
	"github.com/hupe1980/shopagent/logging"
	"github.com/hupe1980/shopagent/vectorindex"
)

// Options configure a Pipeline.
type Options struct {
	ChunkSize    int
	ChunkOverlap int
	TopK         int
	MaxRetries   uint64
	Logger       logging.Logger
	// OnDocument, when set, is invoked after each document is chunked during
	// Build. Used by the ingest CLI for progress reporting.
	OnDocument func(done, total int)
}

// Pipeline owns the retrievable corpus: it builds the vector index from
// document collections (or restores a persisted snapshot) and answers
// similarity queries. Build is a one-time blocking operation at startup;
// Retrieve is read-only and safe for concurrent use afterwards.
type Pipeline struct {
	embedder  embedding.Provider
	index     *vectorindex.Index
	indexPath string
	opts      Options
}

// NewPipeline creates a pipeline persisting its index at indexPath.
func NewPipeline(embedder embedding.Provider, indexPath string, optFns ...func(o *Options)) *Pipeline {
	opts := Options{
		ChunkSize:    500,
		ChunkOverlap: 50,
		TopK:         3,
		MaxRetries:   2,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Pipeline{
		embedder:  embedder,
		index:     vectorindex.New(embedder.Dimension()),
		indexPath: indexPath,
		opts:      opts,
	}
}

// Init restores a persisted index when one exists and matches the embedder's
// dimension; otherwise it builds from the document collections under docsDir
// and persists the result.
func (p *Pipeline) Init(ctx context.Context, docsDir string) error {
	restored, err := vectorindex.Restore(p.indexPath)
	if err == nil {
		if restored.Dimension() == p.embedder.Dimension() {
			p.index = restored
			p.opts.Logger.Info("Restored vector index", "entries", restored.Len(), "path", p.indexPath)
			return nil
		}
		p.opts.Logger.Warn("Discarding index snapshot with stale dimension", "have", restored.Dimension(), "want", p.embedder.Dimension())
	} else {
		p.opts.Logger.Info("No usable index snapshot, building", "path", p.indexPath, "reason", err.Error())
	}

	docs, err := LoadCollections(docsDir)
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}
	if len(docs) == 0 {
		p.opts.Logger.Warn("No documents found to index", "dir", docsDir)
		return nil
	}
	return p.Build(ctx, docs)
}

// Build chunks the documents, embeds all chunk texts in one batched provider
// call, appends the aligned triples to the index in input order, and persists
// a snapshot.
func (p *Pipeline) Build(ctx context.Context, docs []Document) error {
	var chunks []Chunk
	for i, doc := range docs {
		chunks = append(chunks, ChunkDocument(doc, p.opts.ChunkSize, p.opts.ChunkOverlap)...)
		if p.opts.OnDocument != nil {
			p.opts.OnDocument(i+1, len(docs))
		}
	}
	if len(chunks) == 0 {
		return fmt.Errorf("documents produced no chunks")
	}
	p.opts.Logger.Info("Chunked documents", "documents", len(docs), "chunks", len(chunks))

	texts := make([]string, len(chunks))
	metadata := make([]map[string]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
		metadata[i] = c.Metadata
	}

	var vectors [][]float32
	err := core.RetryExternal(ctx, "embedding", p.opts.MaxRetries, func() error {
		var embedErr error
		vectors, embedErr = p.embedder.EmbedBatch(ctx, texts)
		return embedErr
	})
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}

	if err := p.index.Add(vectors, texts, metadata); err != nil {
		return fmt.Errorf("index chunks: %w", err)
	}

	if err := p.index.Persist(p.indexPath); err != nil {
		return fmt.Errorf("persist index: %w", err)
	}
	p.opts.Logger.Info("Vector index built", "entries", p.index.Len(), "path", p.indexPath)
	return nil
}

// Retrieve embeds the query and returns up to topK nearest chunks in
// ascending distance order. topK <= 0 selects the configured default; the
// index clamps to its entry count.
func (p *Pipeline) Retrieve(ctx context.Context, query string, topK int) ([]vectorindex.Result, error) {
	if topK <= 0 {
		topK = p.opts.TopK
	}

	start := time.Now()
	var vector []float32
	err := core.RetryExternal(ctx, "embedding", p.opts.MaxRetries, func() error {
		var embedErr error
		vector, embedErr = p.embedder.Embed(ctx, query)
		return embedErr
	})
	if err != nil {
		return nil, err
	}

	results, err := p.index.Search(vector, topK)
	if err != nil {
		return nil, err
	}
	if al, ok := p.opts.Logger.(*logging.AgentLogger); ok {
		al.LogRetrieval(query, len(results), time.Since(start))
	}
	return results, nil
}

// SetProgress installs a per-document progress callback for Build.
func (p *Pipeline) SetProgress(fn func(done, total int)) {
	p.opts.OnDocument = fn
}

// Stats exposes the underlying index stats.
func (p *Pipeline) Stats() vectorindex.Stats { return p.index.Stats() }
