// Package retrieval ingests document collections, splits them into
// overlapping chunks, and drives the embedding provider and vector index to
// build and query the retrievable corpus.
package retrieval

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Document is a raw ingestible item: either prose content or a
// question/answer pair, plus routing metadata. DocType is stamped from the
// collection the document was loaded from.
type Document struct {
	Title     string `json:"title,omitempty"`
	Content   string `json:"content,omitempty"`
	Question  string `json:"question,omitempty"`
	Answer    string `json:"answer,omitempty"`
	DocType   string `json:"doc_type,omitempty"`
	ProductID int    `json:"product_id,omitempty"`
	Category  string `json:"category,omitempty"`
}

// Text renders the chunkable body. QA documents render as "Q: ...\nA: ...".
func (d Document) Text() string {
	if d.Content != "" {
		return d.Content
	}
	if d.Answer != "" {
		return fmt.Sprintf("Q: %s\nA: %s", d.Question, d.Answer)
	}
	return ""
}

// DerivedTitle resolves the chunk title: explicit title, else the question
// for QA documents, else "Untitled".
func (d Document) DerivedTitle() string {
	if d.Title != "" {
		return d.Title
	}
	if d.Question != "" {
		return d.Question
	}
	return "Untitled"
}

// metadata flattens the document's routing fields for index storage.
func (d Document) metadata() map[string]string {
	md := map[string]string{
		"doc_type": d.DocType,
		"title":    d.DerivedTitle(),
	}
	if d.ProductID > 0 {
		md["product_id"] = strconv.Itoa(d.ProductID)
	}
	if d.Category != "" {
		md["category"] = d.Category
	}
	return md
}

// collections lists the known collection files inside the data directory.
// Load order is fixed so rebuilt indexes are deterministic.
var collections = []struct {
	docType  string
	filename string
}{
	{"product_manuals", "product_manuals.json"},
	{"faqs", "faqs.json"},
	{"policies", "policies.json"},
}

// LoadCollections reads every known collection file under dir, stamping each
// document with its source collection as doc_type. Missing files are skipped;
// malformed files are errors.
func LoadCollections(dir string) ([]Document, error) {
	var documents []Document
	for _, col := range collections {
		path := filepath.Join(dir, col.filename)
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", col.filename, err)
		}

		var items []Document
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parse %s: %w", col.filename, err)
		}
		for i := range items {
			items[i].DocType = col.docType
		}
		documents = append(documents, items...)
	}
	return documents, nil
}
