package llm

import (
	"context"
	"fmt"
	"net/http"
)

// ModelProbe checks which models an OpenAI-compatible server exposes.
type ModelProbe struct {
	baseURL string
	client  *http.Client
}

// NewModelProbe creates a probe against baseURL.
func NewModelProbe(baseURL string) *ModelProbe {
	return &ModelProbe{
		baseURL: baseURL,
		client:  newHTTPClient(),
	}
}

// ModelStatus is one entry of the /v1/models listing. InCache is reported by
// llama.cpp routers and is absent on other servers.
type ModelStatus struct {
	ID      string `json:"id"`
	InCache *bool  `json:"in_cache,omitempty"`
}

// ModelsResponse represents the response from the /v1/models endpoint.
type ModelsResponse struct {
	Data []ModelStatus `json:"data"`
}

// ModelAvailable reports whether modelName is listed and, where the server
// says so, loaded.
func (p *ModelProbe) ModelAvailable(ctx context.Context, modelName string) (bool, error) {
	var models ModelsResponse
	if err := doJSON(ctx, p.client, http.MethodGet, p.baseURL+"/v1/models", "", nil, &models); err != nil {
		return false, fmt.Errorf("failed to check model status: %w", err)
	}

	for _, m := range models.Data {
		if m.ID == modelName {
			return m.InCache == nil || *m.InCache, nil
		}
	}
	return false, nil
}
