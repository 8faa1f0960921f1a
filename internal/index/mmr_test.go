package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{2, 0}, []float32{5, 0}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 3}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 1}, []float32{-1, -1}), 1e-9)
	assert.Zero(t, Cosine([]float32{0, 0}, []float32{1, 0}))
	assert.Zero(t, Cosine([]float32{1}, []float32{1, 0}))
}

func TestMMRFirstPickIsMostSimilar(t *testing.T) {
	cands := [][]float32{{0, 1}, {1, 0.1}, {0.5, 0.5}}
	picked := MaxMarginalRelevance([]float32{1, 0}, cands, 1, 0.5)
	assert.Equal(t, []int{1}, picked)
}

func TestMMRPrefersDiversity(t *testing.T) {
	query := []float32{1, 0, 0}
	cands := [][]float32{
		{1, 0.05, 0},    // best match
		{1, 0.06, 0},    // near-duplicate of the best match
		{0.6, 0, 0.8},   // less similar but different
	}
	picked := MaxMarginalRelevance(query, cands, 2, 0.5)
	assert.Equal(t, []int{0, 2}, picked)

	// With lambda 1 it degrades to plain similarity ranking.
	picked = MaxMarginalRelevance(query, cands, 2, 1)
	assert.Equal(t, []int{0, 1}, picked)
}

func TestMMRBounds(t *testing.T) {
	cands := [][]float32{{1, 0}, {0, 1}}
	assert.Len(t, MaxMarginalRelevance([]float32{1, 0}, cands, 5, 0.5), 2)
	assert.Nil(t, MaxMarginalRelevance([]float32{1, 0}, cands, 0, 0.5))
	assert.Nil(t, MaxMarginalRelevance([]float32{1, 0}, nil, 3, 0.5))
}

func TestMMRNoDuplicates(t *testing.T) {
	cands := [][]float32{{1, 0}, {1, 0}, {1, 0}, {0, 1}}
	picked := MaxMarginalRelevance([]float32{1, 0}, cands, 4, 0.5)
	seen := map[int]bool{}
	for _, p := range picked {
		assert.False(t, seen[p])
		seen[p] = true
	}
	assert.Len(t, picked, 4)
}
