package index

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/dream-ai/pdfchat/internal/db"
)

// closeTimeout bounds the delete issued by PGVectorIndex.Close.
const closeTimeout = 10 * time.Second

// ChunkStore is the subset of db.DB the pgvector index needs.
type ChunkStore interface {
	InsertChunksBatch(ctx context.Context, chunks []*db.Chunk) error
	SearchSimilarChunks(ctx context.Context, generation uuid.UUID, embedding pgvector.Vector, limit int) ([]*db.ScoredChunk, error)
	DeleteGeneration(ctx context.Context, generation uuid.UUID) error
}

// PGVectorBuilder builds indexes stored in a pdfchat_chunks table.
type PGVectorBuilder struct {
	store ChunkStore
}

// NewPGVectorBuilder creates a builder over store. The schema must exist.
func NewPGVectorBuilder(store ChunkStore) *PGVectorBuilder {
	return &PGVectorBuilder{store: store}
}

// Build writes all docs under a new generation in one transaction.
func (b *PGVectorBuilder) Build(ctx context.Context, docs []IndexedDocument) (Index, error) {
	gen := uuid.New()
	rows := make([]*db.Chunk, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, &db.Chunk{
			ID:         d.ID,
			Generation: gen,
			ChunkIndex: d.Index,
			Content:    d.Content,
			Embedding:  pgvector.NewVector(d.Embedding),
		})
	}
	if err := b.store.InsertChunksBatch(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to store generation: %w", err)
	}
	return &PGVectorIndex{store: b.store, generation: gen, size: len(docs)}, nil
}

// PGVectorIndex searches one generation of rows with the <=> cosine operator.
type PGVectorIndex struct {
	store      ChunkStore
	generation uuid.UUID
	size       int
}

// Generation identifies this build.
func (p *PGVectorIndex) Generation() uuid.UUID {
	return p.generation
}

// Len returns the number of documents.
func (p *PGVectorIndex) Len() int {
	return p.size
}

// Search returns the k nearest rows of this generation.
func (p *PGVectorIndex) Search(ctx context.Context, query []float32, k int) ([]Hit, error) {
	if k <= 0 || p.size == 0 {
		return nil, nil
	}
	rows, err := p.store.SearchSimilarChunks(ctx, p.generation, pgvector.NewVector(query), k)
	if err != nil {
		return nil, err
	}
	hits := make([]Hit, 0, len(rows))
	for _, r := range rows {
		hits = append(hits, Hit{
			IndexedDocument: IndexedDocument{
				ChunkRecord: ChunkRecord{ID: r.ID, Index: r.ChunkIndex, Content: r.Content},
				Embedding:   r.Embedding.Slice(),
			},
			Score: 1 - r.Distance,
		})
	}
	return hits, nil
}

// Close deletes the generation's rows so no later search can see them.
// The delete gives up after closeTimeout.
func (p *PGVectorIndex) Close() error {
	p.size = 0
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	return p.store.DeleteGeneration(ctx, p.generation)
}
