package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSingleResponse(t *testing.T) {
	var got GenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(GenerateResponse{Response: "forty-two", Done: true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	out, err := c.Generate(context.Background(), &GenerateRequest{Model: "llama3", Prompt: "q"})
	require.NoError(t, err)
	assert.Equal(t, "forty-two", out)
	assert.Equal(t, "llama3", got.Model)
	assert.False(t, got.Stream)
}

func TestGenerateStreamedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, part := range []string{"Hel", "lo", "!"} {
			fmt.Fprintf(w, "{\"response\":%q,\"done\":false}\n", part)
		}
		fmt.Fprintln(w, `{"response":"","done":true}`)
	}))
	defer srv.Close()

	out, err := NewClient(srv.URL, time.Second).Generate(context.Background(), &GenerateRequest{Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, "Hello!", out)
}

func TestGenerateHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Generate(context.Background(), &GenerateRequest{Model: "m"})
	var cerr *CompletionError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, http.StatusInternalServerError, cerr.StatusCode)
	assert.Equal(t, "m", cerr.Model)
}

func TestGenerateInlineError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"error":"out of memory"}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Generate(context.Background(), &GenerateRequest{Model: "m"})
	var cerr *CompletionError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, err.Error(), "out of memory")
}

func TestGenerateContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(srv.URL, 0).Generate(ctx, &GenerateRequest{Model: "m"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListAndMissingModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_ = json.NewEncoder(w).Encode(ListModelsResponse{Models: []ModelInfo{
			{Name: "nomic-embed-text:latest"},
			{Name: "llama3:latest", Size: 4 << 30},
		}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	models, err := c.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "llama3:latest", models[0].Name)

	missing, err := c.MissingModels(context.Background(), "llama3", "llama3", "mistral", "nomic-embed-text:latest")
	require.NoError(t, err)
	assert.Equal(t, []string{"mistral"}, missing)
}
