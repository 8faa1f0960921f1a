package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Embedder turns texts into vectors, one per input, in order
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// TextEmbedder generates text embeddings using Ollama
type TextEmbedder struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewTextEmbedder creates a new text embedder
func NewTextEmbedder(baseURL, model string, timeout time.Duration) *TextEmbedder {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3"
	}
	return &TextEmbedder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float32 `json:"embeddings"`
}

// EmbedBatch generates embeddings for all texts in one /api/embed call
func (e *TextEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	jsonData, err := json.Marshal(embedRequest{Model: e.model, Input: texts})
	if err != nil {
		return nil, e.fail(0, fmt.Errorf("failed to marshal request: %w", err))
	}

	url := fmt.Sprintf("%s/api/embed", e.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, e.fail(0, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, e.fail(0, fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, e.fail(resp.StatusCode, fmt.Errorf("ollama API error: %d - %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var result embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, e.fail(resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}

	if len(result.Embeddings) != len(texts) {
		return nil, e.fail(resp.StatusCode, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(result.Embeddings)))
	}
	for i, v := range result.Embeddings {
		if len(v) == 0 {
			return nil, e.fail(resp.StatusCode, fmt.Errorf("empty embedding returned for input %d", i))
		}
	}

	return result.Embeddings, nil
}

func (e *TextEmbedder) fail(status int, err error) error {
	return &EmbeddingError{Model: e.model, StatusCode: status, Err: err}
}
