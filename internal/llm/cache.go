package llm

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks journal-ai/internal/llm Embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// Embedder turns one text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CachedEmbedder memoizes query embeddings for a TTL. Repeated questions and
// retries within a request reuse the same vector.
type CachedEmbedder struct {
	next  Embedder
	model string
	cache *cache.Cache
}

// NewCachedEmbedder wraps next. A non-positive ttl disables caching.
func NewCachedEmbedder(next Embedder, model string, ttl time.Duration) *CachedEmbedder {
	ce := &CachedEmbedder{next: next, model: model}
	if ttl > 0 {
		ce.cache = cache.New(ttl, 2*ttl)
	}
	return ce
}

// Embed returns a cached vector when present, otherwise delegates and stores the result.
func (ce *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if ce.cache == nil {
		return ce.next.Embed(ctx, text)
	}

	key := ce.key(text)
	if v, found := ce.cache.Get(key); found {
		return v.([]float32), nil
	}

	vec, err := ce.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(vec) > 0 {
		ce.cache.Set(key, vec, cache.DefaultExpiration)
	}
	return vec, nil
}

// Len reports how many vectors are cached.
func (ce *CachedEmbedder) Len() int {
	if ce.cache == nil {
		return 0
	}
	return ce.cache.ItemCount()
}

func (ce *CachedEmbedder) key(text string) string {
	sum := sha256.Sum256([]byte(ce.model + "\x00" + text))
	return hex.EncodeToString(sum[:])
}
