package embeddings

import "fmt"

// EmbeddingError reports a failed call to the embedding service.
// StatusCode is zero when no HTTP response was received.
type EmbeddingError struct {
	Model      string
	StatusCode int
	Err        error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding with %s failed: %v", e.Model, e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}
