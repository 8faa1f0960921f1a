package index

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// MemoryBuilder builds MemoryIndex instances.
type MemoryBuilder struct{}

// Build copies docs into a new in-memory index with a fresh generation.
func (MemoryBuilder) Build(ctx context.Context, docs []IndexedDocument) (Index, error) {
	return NewMemoryIndex(docs)
}

// MemoryIndex is a brute-force cosine index held in process memory.
type MemoryIndex struct {
	generation uuid.UUID
	dimensions int
	docs       []IndexedDocument
}

// NewMemoryIndex creates an index over docs. All embeddings must share one dimension.
func NewMemoryIndex(docs []IndexedDocument) (*MemoryIndex, error) {
	m := &MemoryIndex{
		generation: uuid.New(),
		docs:       make([]IndexedDocument, 0, len(docs)),
	}
	for i, d := range docs {
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("document %d has no embedding", i)
		}
		if m.dimensions == 0 {
			m.dimensions = len(d.Embedding)
		}
		if len(d.Embedding) != m.dimensions {
			return nil, fmt.Errorf("vector dimension mismatch: got %d, expected %d", len(d.Embedding), m.dimensions)
		}
		vec := make([]float32, len(d.Embedding))
		copy(vec, d.Embedding)
		d.Embedding = vec
		m.docs = append(m.docs, d)
	}
	return m, nil
}

// Generation identifies this build.
func (m *MemoryIndex) Generation() uuid.UUID {
	return m.generation
}

// Len returns the number of documents.
func (m *MemoryIndex) Len() int {
	return len(m.docs)
}

// Search returns the top-k documents by cosine similarity.
func (m *MemoryIndex) Search(ctx context.Context, query []float32, k int) ([]Hit, error) {
	if k <= 0 || len(m.docs) == 0 {
		return nil, nil
	}
	if len(query) != m.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(query), m.dimensions)
	}

	hits := make([]Hit, len(m.docs))
	for i, d := range m.docs {
		hits[i] = Hit{IndexedDocument: d, Score: Cosine(query, d.Embedding)}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Close drops the documents.
func (m *MemoryIndex) Close() error {
	m.docs = nil
	return nil
}
