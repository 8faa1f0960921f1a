package ollama

import "fmt"

// CompletionError reports a failed call to the language model.
// StatusCode is zero when no HTTP response was received.
type CompletionError struct {
	Model      string
	StatusCode int
	Err        error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion with %s failed: %v", e.Model, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}
