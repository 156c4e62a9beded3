package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// maxEmbedBatch is the number of inputs sent per embeddings request.
const maxEmbedBatch = 64

// EmbeddingsClient is a client for an OpenAI-compatible embeddings API.
type EmbeddingsClient struct {
	BaseURL      string
	APIKey       string
	Model        string
	ExpectedSize int
	client       *http.Client
}

// NewEmbeddingsClient creates a new embeddings client. Every returned vector
// is validated against expectedSize (VECTOR_SIZE).
func NewEmbeddingsClient(baseURL, apiKey, model string, expectedSize int) *EmbeddingsClient {
	return &EmbeddingsClient{
		BaseURL:      baseURL,
		APIKey:       apiKey,
		Model:        model,
		ExpectedSize: expectedSize,
		client:       newHTTPClient(),
	}
}

// EmbeddingsRequest represents the request payload for embeddings API.
type EmbeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// EmbeddingData is one vector of the response. Index refers to the input
// position; servers that omit it are read in response order.
type EmbeddingData struct {
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}

// EmbeddingsResponse represents the response from the embeddings API.
type EmbeddingsResponse struct {
	Data []EmbeddingData `json:"data"`
}

// Embed returns the vector for a single text. Blank text yields a nil vector
// and no request.
func (c *EmbeddingsClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	vecs, err := c.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedTexts generates one embedding per input text, in input order. Large
// inputs are split into batches of maxEmbedBatch.
func (c *EmbeddingsClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, errors.New("empty input array")
	}

	result := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxEmbedBatch {
		end := min(start+maxEmbedBatch, len(texts))
		batch, err := c.embedBatch(ctx, texts[start:end])
		if err != nil {
			if len(texts) > maxEmbedBatch {
				return nil, fmt.Errorf("batch at %d: %w", start, err)
			}
			return nil, err
		}
		result = append(result, batch...)
	}
	return result, nil
}

func (c *EmbeddingsClient) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var resp EmbeddingsResponse
	if err := doJSON(ctx, c.client, http.MethodPost, c.BaseURL+"/v1/embeddings", c.APIKey,
		EmbeddingsRequest{Model: c.Model, Input: texts}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	ordered := byIndex(resp.Data)
	out := make([][]float32, len(ordered))
	for i, data := range ordered {
		if len(data.Embedding) != c.ExpectedSize {
			return nil, fmt.Errorf("embedding %d has size %d, expected %d", i, len(data.Embedding), c.ExpectedSize)
		}
		vec := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vec[j] = float32(v)
		}
		out[i] = vec
	}
	return out, nil
}

// byIndex reorders data by its Index field when the indexes are a permutation
// of the positions, and keeps response order otherwise.
func byIndex(data []EmbeddingData) []EmbeddingData {
	ordered := make([]EmbeddingData, len(data))
	filled := make([]bool, len(data))
	for _, d := range data {
		if d.Index < 0 || d.Index >= len(data) || filled[d.Index] {
			return data
		}
		ordered[d.Index] = d
		filled[d.Index] = true
	}
	return ordered
}
