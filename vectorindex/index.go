// Package vectorindex implements a flat nearest-neighbor index over
// fixed-dimension embedding vectors with squared Euclidean distance, plus
// snapshot persistence backed by BoltDB. Search is brute force; the corpus
// sizes this engine serves (hundreds to low thousands of chunks) do not
// justify an ANN structure.
package vectorindex

import (
	"fmt"
	"sort"
	"sync"
)

// Result is a single search hit. Distance is squared Euclidean; lower means
// more similar.
type Result struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
	Distance float32           `json:"distance"`
}

// Stats exposes entry count and dimension for observability.
type Stats struct {
	Entries   int `json:"entries"`
	Dimension int `json:"dimension"`
}

// Index stores vectors with parallel texts and metadata. The three slices are
// positionally aligned at all times; Add enforces the invariant. Reads may run
// concurrently; Add is exclusive.
type Index struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float32
	texts     []string
	metadata  []map[string]string
}

// New creates an empty index for vectors of the given dimension.
func New(dimension int) *Index {
	return &Index{dimension: dimension}
}

// Add appends aligned (vector, text, metadata) triples. It rejects empty
// input, length mismatches between the three slices, and any vector whose
// length differs from the index dimension. On error the index is unchanged.
func (ix *Index) Add(vectors [][]float32, texts []string, metadata []map[string]string) error {
	if len(vectors) == 0 {
		return fmt.Errorf("vectorindex: nothing to add")
	}
	if len(vectors) != len(texts) || len(vectors) != len(metadata) {
		return fmt.Errorf("vectorindex: misaligned input: %d vectors, %d texts, %d metadata", len(vectors), len(texts), len(metadata))
	}
	for i, v := range vectors {
		if len(v) != ix.dimension {
			return fmt.Errorf("vectorindex: vector %d has dimension %d, want %d", i, len(v), ix.dimension)
		}
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.vectors = append(ix.vectors, vectors...)
	ix.texts = append(ix.texts, texts...)
	ix.metadata = append(ix.metadata, metadata...)
	return nil
}

// Search returns the k nearest stored vectors in ascending distance order.
// An empty index yields an empty result; k is clamped to the entry count.
func (ix *Index) Search(query []float32, k int) ([]Result, error) {
	if len(query) != ix.dimension {
		return nil, fmt.Errorf("vectorindex: query has dimension %d, want %d", len(query), ix.dimension)
	}
	if k <= 0 {
		return nil, fmt.Errorf("vectorindex: k must be positive, got %d", k)
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if len(ix.vectors) == 0 {
		return []Result{}, nil
	}

	type scored struct {
		pos  int
		dist float32
	}
	hits := make([]scored, len(ix.vectors))
	for i, v := range ix.vectors {
		hits[i] = scored{pos: i, dist: squaredL2(query, v)}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].dist < hits[b].dist })

	if k > len(hits) {
		k = len(hits)
	}
	results := make([]Result, k)
	for i := 0; i < k; i++ {
		results[i] = Result{
			Text:     ix.texts[hits[i].pos],
			Metadata: ix.metadata[hits[i].pos],
			Distance: hits[i].dist,
		}
	}
	return results, nil
}

// Stats implements the observability contract.
func (ix *Index) Stats() Stats {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return Stats{Entries: len(ix.vectors), Dimension: ix.dimension}
}

// Len returns the number of stored entries.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.vectors)
}

// Dimension returns the fixed vector dimension.
func (ix *Index) Dimension() int { return ix.dimension }

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
