package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Chunk is one row of pdfchat_chunks
type Chunk struct {
	ID         uuid.UUID
	Generation uuid.UUID
	ChunkIndex int
	Content    string
	Embedding  pgvector.Vector
	CreatedAt  time.Time
}

// ScoredChunk is a chunk returned by a similarity search
type ScoredChunk struct {
	Chunk
	Distance float64
}
