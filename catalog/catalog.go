// Package catalog builds an in-memory product relationship graph over the
// persisted catalog and answers comparison queries against it.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hupe1980/shopagent/core"
	"github.com/hupe1980/shopagent/store"
)

// Comparison is the result of comparing two or more products: the products
// themselves, a per-feature value matrix, and a recommendation sentence.
type Comparison struct {
	Products       []store.Product `json:"products"`
	Features       []FeatureRow    `json:"comparison"`
	Recommendation string          `json:"recommendation"`
}

// FeatureRow holds one feature's value per compared product, keyed by name.
type FeatureRow struct {
	Feature string            `json:"feature"`
	Values  map[string]string `json:"values"`
}

// Graph is the relationship view over the catalog: products linked to the
// other products in their category. It is built once from the store and is
// read-only afterwards.
type Graph struct {
	products map[int]store.Product
	related  map[int][]int
}

// BuildGraph loads the catalog and links products within each category.
func BuildGraph(ctx context.Context, s store.Store) (*Graph, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	g := &Graph{
		products: make(map[int]store.Product, len(products)),
		related:  make(map[int][]int),
	}
	byCategory := make(map[string][]int)
	for _, p := range products {
		g.products[p.ID] = p
		byCategory[p.Category] = append(byCategory[p.Category], p.ID)
	}
	for _, ids := range byCategory {
		for _, id := range ids {
			for _, other := range ids {
				if other != id {
					g.related[id] = append(g.related[id], other)
				}
			}
		}
	}
	return g, nil
}

// Product returns the catalog entry for id.
func (g *Graph) Product(id int) (store.Product, bool) {
	p, ok := g.products[id]
	return p, ok
}

// Related returns ids of products sharing a category with id, ascending.
func (g *Graph) Related(id int) []int {
	out := append([]int(nil), g.related[id]...)
	sort.Ints(out)
	return out
}

// Len reports the number of products in the graph.
func (g *Graph) Len() int { return len(g.products) }

// Compare builds the feature matrix for the given product ids and recommends
// the highest-rated one. Unknown ids fail with NotFoundError; fewer than two
// ids is a validation error.
func (g *Graph) Compare(ids []int) (*Comparison, error) {
	if len(ids) < 2 {
		return nil, &core.ValidationError{Message: "comparison requires at least two product identifiers"}
	}

	products := make([]store.Product, 0, len(ids))
	for _, id := range ids {
		p, ok := g.products[id]
		if !ok {
			return nil, &core.NotFoundError{Kind: "product", ID: fmt.Sprintf("%d", id)}
		}
		products = append(products, p)
	}

	featureNames := make(map[string]bool)
	for _, p := range products {
		for name := range p.Features {
			featureNames[name] = true
		}
	}
	ordered := make([]string, 0, len(featureNames)+2)
	ordered = append(ordered, "price", "rating")
	for name := range featureNames {
		ordered = append(ordered, name)
	}
	sort.Strings(ordered[2:])

	rows := make([]FeatureRow, 0, len(ordered))
	for _, feature := range ordered {
		row := FeatureRow{Feature: feature, Values: make(map[string]string, len(products))}
		for _, p := range products {
			switch feature {
			case "price":
				row.Values[p.Name] = fmt.Sprintf("$%.2f", p.Price)
			case "rating":
				row.Values[p.Name] = fmt.Sprintf("%.1f/5", p.Rating)
			default:
				if v, ok := p.Features[feature]; ok {
					row.Values[p.Name] = v
				} else {
					row.Values[p.Name] = "N/A"
				}
			}
		}
		rows = append(rows, row)
	}

	best := products[0]
	for _, p := range products[1:] {
		if p.Rating > best.Rating {
			best = p
		}
	}

	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Name
	}

	return &Comparison{
		Products: products,
		Features: rows,
		Recommendation: fmt.Sprintf("Based on customer ratings, we recommend the %s (%.1f/5) among %s.",
			best.Name, best.Rating, strings.Join(names, ", ")),
	}, nil
}
