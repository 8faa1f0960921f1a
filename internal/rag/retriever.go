package rag

import (
	"context"
	"fmt"

	"github.com/dream-ai/pdfchat/internal/embeddings"
	"github.com/dream-ai/pdfchat/internal/index"
)

// Retriever selects documents for a query with maximum marginal relevance
type Retriever struct {
	textEmb embeddings.Embedder
	topK    int
	fetchK  int
	lambda  float64
}

// NewRetriever creates a new retriever. fetchK candidates are pulled from the
// index and topK of them are kept, balancing relevance and diversity by lambda.
func NewRetriever(textEmb embeddings.Embedder, topK, fetchK int, lambda float64) *Retriever {
	if topK <= 0 {
		topK = 3
	}
	if fetchK < topK {
		fetchK = topK
	}
	return &Retriever{
		textEmb: textEmb,
		topK:    topK,
		fetchK:  fetchK,
		lambda:  lambda,
	}
}

// RetrievalResult holds the selected documents in selection order, with each
// document's similarity to the query
type RetrievalResult struct {
	Documents []index.IndexedDocument
	Scores    []float64
}

// Records returns the chunk records of the selected documents
func (r *RetrievalResult) Records() []index.ChunkRecord {
	out := make([]index.ChunkRecord, len(r.Documents))
	for i, d := range r.Documents {
		out[i] = d.ChunkRecord
	}
	return out
}

// Retrieve finds at most topK documents for query in idx
func (r *Retriever) Retrieve(ctx context.Context, idx index.Index, query string) (*RetrievalResult, error) {
	vecs, err := r.textEmb.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("expected 1 query embedding, got %d", len(vecs))
	}
	queryVec := vecs[0]

	hits, err := idx.Search(ctx, queryVec, r.fetchK)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}

	candidates := make([][]float32, len(hits))
	for i, h := range hits {
		candidates[i] = h.Embedding
	}

	result := &RetrievalResult{}
	for _, i := range index.MaxMarginalRelevance(queryVec, candidates, r.topK, r.lambda) {
		result.Documents = append(result.Documents, hits[i].IndexedDocument)
		result.Scores = append(result.Scores, hits[i].Score)
	}
	return result, nil
}
