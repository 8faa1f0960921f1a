// Package index holds the similarity indexes that back retrieval.
package index

import (
	"context"

	"github.com/google/uuid"
)

// ChunkRecord is a text chunk wrapped as a document. Index is its position in
// the chunk sequence of the upload it came from.
type ChunkRecord struct {
	ID      uuid.UUID `json:"id"`
	Index   int       `json:"index"`
	Content string    `json:"content"`
}

// IndexedDocument is a ChunkRecord with its embedding.
type IndexedDocument struct {
	ChunkRecord
	Embedding []float32 `json:"-"`
}

// Hit is a search candidate with its cosine similarity to the query.
type Hit struct {
	IndexedDocument
	Score float64
}

// Index is a read-only similarity index over one generation of documents.
// A new upload builds a new Index; the old one is closed, never mutated.
type Index interface {
	Generation() uuid.UUID
	Len() int
	// Search returns up to k documents ordered by decreasing similarity.
	Search(ctx context.Context, query []float32, k int) ([]Hit, error)
	Close() error
}

// Builder creates an Index from fully embedded documents.
type Builder interface {
	Build(ctx context.Context, docs []IndexedDocument) (Index, error)
}
