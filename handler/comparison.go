package handler

import (
	"errors"
	"fmt"

	"github.com/hupe1980/shopagent/catalog"
	"github.com/hupe1980/shopagent/core"
)

// ComparisonHandler compares products via the catalog graph.
type ComparisonHandler struct {
	graph *catalog.Graph
}

// NewComparisonHandler creates a comparison handler over the given graph.
func NewComparisonHandler(g *catalog.Graph) *ComparisonHandler {
	return &ComparisonHandler{graph: g}
}

// Compare builds the feature comparison for the given product ids.
func (h *ComparisonHandler) Compare(ids []int) (Result, error) {
	cmp, err := h.graph.Compare(ids)
	if err != nil {
		var nf *core.NotFoundError
		if errors.As(err, &nf) {
			return NotFound{Message: fmt.Sprintf("Product %s not found.", nf.ID)}, nil
		}
		return nil, err
	}
	return ComparisonResult{Comparison: cmp, ProductIDs: ids}, nil
}
