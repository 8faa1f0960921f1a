package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

const schema = `
CREATE EXTENSION IF NOT EXISTS vector;
CREATE TABLE IF NOT EXISTS pdfchat_chunks (
	id          UUID PRIMARY KEY,
	generation  UUID NOT NULL,
	chunk_index INTEGER NOT NULL,
	content     TEXT NOT NULL,
	embedding   vector NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS pdfchat_chunks_generation_idx ON pdfchat_chunks (generation);
`

// EnsureSchema creates the pgvector extension and the chunks table if missing.
// The schema is several statements, which only the simple protocol accepts.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema, pgx.QueryExecModeSimpleProtocol); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// InsertChunksBatch inserts multiple chunks in one transaction
func (db *DB) InsertChunksBatch(ctx context.Context, chunks []*Chunk) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, chunk := range chunks {
		batch.Queue(
			`INSERT INTO pdfchat_chunks (id, generation, chunk_index, content, embedding)
			 VALUES ($1, $2, $3, $4, $5)`,
			chunk.ID, chunk.Generation, chunk.ChunkIndex, chunk.Content, chunk.Embedding,
		)
	}
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < len(chunks); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}
	return tx.Commit(ctx)
}

// SearchSimilarChunks finds the chunks of one generation closest to embedding by cosine distance
func (db *DB) SearchSimilarChunks(ctx context.Context, generation uuid.UUID, embedding pgvector.Vector, limit int) ([]*ScoredChunk, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, generation, chunk_index, content, embedding, created_at, embedding <=> $2 AS distance
		 FROM pdfchat_chunks
		 WHERE generation = $1
		 ORDER BY distance
		 LIMIT $3`,
		generation, embedding, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer rows.Close()

	var chunks []*ScoredChunk
	for rows.Next() {
		var c ScoredChunk
		if err := rows.Scan(
			&c.ID, &c.Generation, &c.ChunkIndex,
			&c.Content, &c.Embedding, &c.CreatedAt, &c.Distance,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunks = append(chunks, &c)
	}
	return chunks, rows.Err()
}

// PurgeChunks removes all stored chunks and returns how many were deleted.
// Rows left by an earlier process belong to generations nothing can reach.
func (db *DB) PurgeChunks(ctx context.Context) (int64, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM pdfchat_chunks`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge chunks: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteGeneration removes every chunk of a generation
func (db *DB) DeleteGeneration(ctx context.Context, generation uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM pdfchat_chunks WHERE generation = $1`, generation)
	if err != nil {
		return fmt.Errorf("failed to delete generation %s: %w", generation, err)
	}
	return nil
}
