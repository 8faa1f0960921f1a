package index

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(content string, vec ...float32) IndexedDocument {
	return IndexedDocument{
		ChunkRecord: ChunkRecord{ID: uuid.New(), Content: content},
		Embedding:   vec,
	}
}

func TestMemoryIndexSearch(t *testing.T) {
	idx, err := MemoryBuilder{}.Build(context.Background(), []IndexedDocument{
		doc("a", 1, 0, 0),
		doc("b", 0.9, 0.1, 0),
		doc("c", 0, 1, 0),
	})
	require.NoError(t, err)
	defer idx.Close()
	assert.Equal(t, 3, idx.Len())
	assert.NotEqual(t, uuid.Nil, idx.Generation())

	hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].Content)
	assert.Equal(t, "b", hits[1].Content)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)

	all, err := idx.Search(context.Background(), []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemoryIndexDimensionChecks(t *testing.T) {
	_, err := NewMemoryIndex([]IndexedDocument{doc("a", 1, 0), doc("b", 1)})
	assert.Error(t, err)

	_, err = NewMemoryIndex([]IndexedDocument{doc("a")})
	assert.Error(t, err)

	idx, err := NewMemoryIndex([]IndexedDocument{doc("a", 1, 0)})
	require.NoError(t, err)
	_, err = idx.Search(context.Background(), []float32{1}, 1)
	assert.Error(t, err)
}

func TestMemoryIndexCopiesVectors(t *testing.T) {
	d := doc("a", 1, 0)
	idx, err := NewMemoryIndex([]IndexedDocument{d})
	require.NoError(t, err)
	d.Embedding[0] = -1

	hits, err := idx.Search(context.Background(), []float32{1, 0}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
}

func TestMemoryIndexGenerationsDiffer(t *testing.T) {
	a, _ := NewMemoryIndex(nil)
	b, _ := NewMemoryIndex(nil)
	assert.NotEqual(t, a.Generation(), b.Generation())
}

func TestMemoryIndexClose(t *testing.T) {
	idx, _ := NewMemoryIndex([]IndexedDocument{doc("a", 1)})
	require.NoError(t, idx.Close())
	assert.Equal(t, 0, idx.Len())
	hits, err := idx.Search(context.Background(), []float32{1}, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
