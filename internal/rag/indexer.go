package rag

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dream-ai/pdfchat/internal/embeddings"
	"github.com/dream-ai/pdfchat/internal/index"
)

// ErrNoText is returned when an upload produced no chunks to index.
var ErrNoText = errors.New("no extractable text in the uploaded documents")

// Indexer embeds chunks and loads them into a fresh index
type Indexer struct {
	textEmb embeddings.Embedder
	builder index.Builder
	logger  *zap.Logger
}

// NewIndexer creates a new indexer
func NewIndexer(textEmb embeddings.Embedder, builder index.Builder, logger *zap.Logger) *Indexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{textEmb: textEmb, builder: builder, logger: logger}
}

// Build wraps each chunk as a record, embeds all of them in one call and
// builds a new index. Any failure leaves no index behind.
func (ix *Indexer) Build(ctx context.Context, chunks []string) (index.Index, error) {
	if len(chunks) == 0 {
		return nil, ErrNoText
	}

	vectors, err := ix.textEmb.EmbedBatch(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(chunks), len(vectors))
	}

	docs := make([]index.IndexedDocument, len(chunks))
	for i, text := range chunks {
		docs[i] = index.IndexedDocument{
			ChunkRecord: index.ChunkRecord{ID: uuid.New(), Index: i, Content: text},
			Embedding:   vectors[i],
		}
	}

	idx, err := ix.builder.Build(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}
	ix.logger.Info("index built",
		zap.String("generation", idx.Generation().String()),
		zap.Int("documents", idx.Len()),
		zap.Int("dimensions", len(vectors[0])),
	)
	return idx, nil
}
