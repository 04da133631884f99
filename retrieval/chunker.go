package retrieval

// Chunk is a bounded-length slice of one document plus inherited metadata,
// the unit of retrieval.
type Chunk struct {
	Text     string
	Metadata map[string]string
}

// ChunkDocument splits a document's text into windows of width chars with the
// given overlap; the window start advances by width-overlap and the final
// window may be shorter. Widths are counted in runes so multi-byte text never
// splits inside a character. A non-positive width yields the whole document
// as one chunk, and an overlap outside [0, width) is clamped so the window
// always advances.
func ChunkDocument(doc Document, width, overlap int) []Chunk {
	runes := []rune(doc.Text())
	if len(runes) == 0 {
		return nil
	}
	if width <= 0 {
		return []Chunk{{Text: string(runes), Metadata: doc.metadata()}}
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= width {
		overlap = width - 1
	}

	step := width - overlap
	var chunks []Chunk
	for start := 0; start < len(runes); start += step {
		end := start + width
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, Chunk{
			Text:     string(runes[start:end]),
			Metadata: doc.metadata(),
		})
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// ChunkDocuments chunks a batch of documents preserving document order.
func ChunkDocuments(docs []Document, width, overlap int) []Chunk {
	var chunks []Chunk
	for _, doc := range docs {
		chunks = append(chunks, ChunkDocument(doc, width, overlap)...)
	}
	return chunks
}
