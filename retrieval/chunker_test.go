package retrieval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkDocument(t *testing.T) {
	t.Run("ShortDocumentSingleChunk", func(t *testing.T) {
		doc := Document{Title: "Warranty", Content: "All devices carry a two year warranty.", DocType: "policies"}

		chunks := ChunkDocument(doc, 500, 50)

		require.Len(t, chunks, 1)
		assert.Equal(t, doc.Content, chunks[0].Text)
		assert.Equal(t, "Warranty", chunks[0].Metadata["title"])
		assert.Equal(t, "policies", chunks[0].Metadata["doc_type"])
	})

	t.Run("OverlapWindow", func(t *testing.T) {
		doc := Document{Title: "Manual", Content: strings.Repeat("x", 520), DocType: "product_manuals"}

		chunks := ChunkDocument(doc, 500, 50)

		require.Len(t, chunks, 2)
		assert.Len(t, []rune(chunks[0].Text), 500)
		assert.Len(t, []rune(chunks[1].Text), 70)
	})

	t.Run("ChunkCountFormula", func(t *testing.T) {
		width, overlap := 500, 50
		step := width - overlap
		for _, length := range []int{1, 499, 500, 501, 950, 951, 2000} {
			doc := Document{Content: strings.Repeat("a", length)}

			chunks := ChunkDocument(doc, width, overlap)

			want := 1
			if length > width {
				want = (length - overlap + step - 1) / step
			}
			assert.Len(t, chunks, want, "length %d", length)
		}
	})

	t.Run("AdjacentChunksShareOverlap", func(t *testing.T) {
		content := make([]rune, 1200)
		for i := range content {
			content[i] = rune('a' + i%26)
		}
		doc := Document{Content: string(content)}

		chunks := ChunkDocument(doc, 500, 50)

		require.Greater(t, len(chunks), 1)
		for i := 1; i < len(chunks); i++ {
			prev := []rune(chunks[i-1].Text)
			cur := []rune(chunks[i].Text)
			assert.Equal(t, string(prev[len(prev)-50:]), string(cur[:50]))
		}
	})

	t.Run("QADocumentRendersQuestionAnswer", func(t *testing.T) {
		doc := Document{Question: "How long is shipping?", Answer: "3 to 5 business days.", DocType: "faqs"}

		chunks := ChunkDocument(doc, 500, 50)

		require.Len(t, chunks, 1)
		assert.Equal(t, "Q: How long is shipping?\nA: 3 to 5 business days.", chunks[0].Text)
		assert.Equal(t, "How long is shipping?", chunks[0].Metadata["title"])
	})

	t.Run("EmptyDocument", func(t *testing.T) {
		chunks := ChunkDocument(Document{}, 500, 50)

		assert.Empty(t, chunks)
	})

	t.Run("DegenerateWindowStillAdvances", func(t *testing.T) {
		doc := Document{Content: strings.Repeat("z", 40)}

		// overlap >= width clamps to a step of one rune
		chunks := ChunkDocument(doc, 10, 10)
		assert.Len(t, chunks, 31)
		chunks = ChunkDocument(doc, 10, 25)
		assert.Len(t, chunks, 31)

		// negative overlap is treated as none
		chunks = ChunkDocument(doc, 10, -5)
		assert.Len(t, chunks, 4)

		// non-positive width returns the whole document
		chunks = ChunkDocument(doc, 0, 50)
		require.Len(t, chunks, 1)
		assert.Equal(t, doc.Content, chunks[0].Text)
	})
}

func TestChunkDocuments(t *testing.T) {
	docs := []Document{
		{Title: "First", Content: strings.Repeat("a", 520)},
		{Title: "Second", Content: "short"},
	}

	chunks := ChunkDocuments(docs, 500, 50)

	require.Len(t, chunks, 3)
	assert.Equal(t, "First", chunks[0].Metadata["title"])
	assert.Equal(t, "First", chunks[1].Metadata["title"])
	assert.Equal(t, "Second", chunks[2].Metadata["title"])
}

func TestDerivedTitle(t *testing.T) {
	assert.Equal(t, "Guide", Document{Title: "Guide"}.DerivedTitle())
	assert.Equal(t, "Why?", Document{Question: "Why?"}.DerivedTitle())
	assert.Equal(t, "Untitled", Document{Content: "text"}.DerivedTitle())
}
