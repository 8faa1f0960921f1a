package embeddings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedBatch(t *testing.T) {
	var got embedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		resp := embedResponse{Model: got.Model}
		for i := range got.Input {
			resp.Embeddings = append(resp.Embeddings, []float32{float32(i), 1})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	e := NewTextEmbedder(srv.URL+"/", "llama3", time.Second)
	vecs, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, "llama3", got.Model)
	assert.Equal(t, []string{"a", "b", "c"}, got.Input)
	require.Len(t, vecs, 3)
	assert.Equal(t, []float32{2, 1}, vecs[2])
}

func TestEmbedBatchEmpty(t *testing.T) {
	vecs, err := NewTextEmbedder("http://unused", "m", time.Second).EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestEmbedBatchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewTextEmbedder(srv.URL, "missing", time.Second).EmbedBatch(context.Background(), []string{"x"})
	var eerr *EmbeddingError
	require.True(t, errors.As(err, &eerr))
	assert.Equal(t, http.StatusNotFound, eerr.StatusCode)
	assert.Equal(t, "missing", eerr.Model)
	assert.Contains(t, err.Error(), "model not found")
}

func TestEmbedBatchCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float32{{1}}})
	}))
	defer srv.Close()

	_, err := NewTextEmbedder(srv.URL, "m", time.Second).EmbedBatch(context.Background(), []string{"x", "y"})
	var eerr *EmbeddingError
	assert.ErrorAs(t, err, &eerr)
}

func TestEmbedBatchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewTextEmbedder(url, "m", time.Second).EmbedBatch(context.Background(), []string{"x"})
	var eerr *EmbeddingError
	require.ErrorAs(t, err, &eerr)
	assert.Zero(t, eerr.StatusCode)
}

func TestMockEmbedderDeterministicAndNormalized(t *testing.T) {
	m := NewMockEmbedder(32)
	vecs, err := m.EmbedBatch(context.Background(), []string{"the cat sat", "the cat sat", ""})
	require.NoError(t, err)
	assert.Equal(t, vecs[0], vecs[1])

	for _, v := range vecs {
		var sum float64
		for _, x := range v {
			sum += float64(x * x)
		}
		assert.InDelta(t, 1.0, sum, 1e-5)
	}
	assert.Equal(t, 1, m.Calls)
}
