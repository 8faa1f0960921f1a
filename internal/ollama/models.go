package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

// ModelInfo represents information about an Ollama model
type ModelInfo struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	ModifiedAt string `json:"modified_at"`
}

// ListModelsResponse represents the response from listing models
type ListModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// ListModels lists all locally available Ollama models, sorted by name
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	url := fmt.Sprintf("%s/api/tags", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama API error: %d - %s", resp.StatusCode, string(body))
	}

	var result ListModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	sort.Slice(result.Models, func(i, j int) bool {
		return result.Models[i].Name < result.Models[j].Name
	})
	return result.Models, nil
}

// MissingModels returns the names in want that are not pulled locally.
// A name without a tag matches its ":latest" variant.
func (c *Client) MissingModels(ctx context.Context, want ...string) ([]string, error) {
	models, err := c.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	have := make(map[string]bool, len(models))
	for _, m := range models {
		have[m.Name] = true
		have[strings.TrimSuffix(m.Name, ":latest")] = true
	}

	var missing []string
	seen := make(map[string]bool)
	for _, name := range want {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		if !have[name] {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
