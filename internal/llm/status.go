package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/longkey1/chenai/internal/chenai"
)

// OllamaStatus reports whether the Ollama server answers and what it has installed.
type OllamaStatus struct {
	Running bool
	Models  []chenai.ModelInfo
	Err     error
}

// HasModel reports whether name (with or without the ":latest" tag) is installed.
func (s OllamaStatus) HasModel(name string) bool {
	for _, m := range s.Models {
		if m.ID == name || strings.TrimSuffix(m.ID, ":latest") == name {
			return true
		}
	}
	return false
}

// OllamaClient queries the Ollama management API.
type OllamaClient struct {
	client *resty.Client
}

type tagsResponse struct {
	Models []struct {
		Name    string `json:"name"`
		Size    int64  `json:"size"`
		Details struct {
			Family        string `json:"family"`
			ParameterSize string `json:"parameter_size"`
			Quantization  string `json:"quantization_level"`
		} `json:"details"`
	} `json:"models"`
}

// NewOllamaClient returns a client for the server at baseURL.
func NewOllamaClient(baseURL string, timeout time.Duration) *OllamaClient {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &OllamaClient{client: client}
}

// ListModels returns the installed models sorted by name. current marks the default one.
func (c *OllamaClient) ListModels(ctx context.Context, current string) ([]chenai.ModelInfo, error) {
	var tags tagsResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&tags).
		Get("/api/tags")
	if err != nil {
		return nil, fmt.Errorf("contacting ollama: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ollama returned %s", resp.Status())
	}

	models := make([]chenai.ModelInfo, 0, len(tags.Models))
	for _, m := range tags.Models {
		var desc []string
		for _, part := range []string{m.Details.Family, m.Details.ParameterSize, m.Details.Quantization} {
			if part != "" {
				desc = append(desc, part)
			}
		}
		models = append(models, chenai.ModelInfo{
			ID:          m.Name,
			Description: strings.Join(desc, " "),
			IsDefault:   m.Name == current || strings.TrimSuffix(m.Name, ":latest") == current,
		})
	}
	sort.Slice(models, func(i, j int) bool {
		return models[i].ID < models[j].ID
	})
	return models, nil
}

// Status checks the server and never fails: errors are reported in the result.
func (c *OllamaClient) Status(ctx context.Context, current string) OllamaStatus {
	models, err := c.ListModels(ctx, current)
	if err != nil {
		return OllamaStatus{Err: err}
	}
	return OllamaStatus{Running: true, Models: models}
}
