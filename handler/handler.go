// Package handler implements the intent-specific operations behind the
// orchestrator: order status, complaints, refunds, delivery tracking, and
// product comparison. Each operation returns a tagged Result variant the
// composer can match on instead of probing optional fields.
package handler

import (
	"github.com/hupe1980/shopagent/catalog"
)

// Result is the sealed outcome of one handler invocation.
type Result interface {
	isResult()
}

// Clarify asks the user for a missing identifier. No further processing
// happens for this turn.
type Clarify struct {
	Message string
}

// NotFound reports an unknown record with a human-readable message that is
// returned verbatim.
type NotFound struct {
	Message string
}

// Found carries a ready-made response message plus structured fields for the
// response metadata. Composition is skipped.
type Found struct {
	Message string
	Fields  map[string]any
}

// Context carries retrieved text for the composer to ground its answer in,
// with source labels. The generative model produces the final message.
type Context struct {
	Context  string
	Sources  []string
	Metadata map[string]any
}

// ComparisonResult carries a product comparison for the composer to render.
type ComparisonResult struct {
	Comparison *catalog.Comparison
	ProductIDs []int
}

func (Clarify) isResult()          {}
func (NotFound) isResult()         {}
func (Found) isResult()            {}
func (Context) isResult()          {}
func (ComparisonResult) isResult() {}
