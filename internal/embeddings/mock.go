package embeddings

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// MockEmbedder is a deterministic bag-of-words embedder for tests and offline
// runs. Each word is hashed into one of Dimensions buckets, so texts sharing
// words get similar vectors. Vectors are L2-normalized.
type MockEmbedder struct {
	Dimensions int
	Calls      int
}

// NewMockEmbedder returns a mock embedder with the given dimensions
func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = 64
	}
	return &MockEmbedder{Dimensions: dimensions}
}

// EmbedBatch embeds each text independently
func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.Calls++
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.embed(t)
	}
	return out, nil
}

func (m *MockEmbedder) embed(text string) []float32 {
	vec := make([]float32, m.Dimensions)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		h.Write([]byte(w))
		vec[h.Sum32()%uint32(m.Dimensions)]++
	}
	// Keep empty texts off the zero vector.
	if len(words) == 0 {
		vec[0] = 1
	}
	var sum float64
	for _, v := range vec {
		sum += float64(v * v)
	}
	norm := float32(1 / math.Sqrt(sum))
	for i := range vec {
		vec[i] *= norm
	}
	return vec
}
