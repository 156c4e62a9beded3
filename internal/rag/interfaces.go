package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_rag.go -package=mocks journal-ai/internal/rag LLMClient,Embedder,RecordSource,VectorRetriever,LexicalRetriever,Searcher,RelevanceJudge,Engine

import (
	"context"

	"journal-ai/internal/llm"
	"journal-ai/internal/storage"
)

// LLMClient is the chat model used by the classifier, the judge and the generators.
type LLMClient interface {
	Complete(ctx context.Context, system, user string, params llm.ChatParams) (string, error)
}

// Embedder produces query vectors. Blank text yields nil.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// RecordSource is the relational side of the datastore.
type RecordSource interface {
	FetchByOwnerAndWindow(ctx context.Context, ownerID int64, w storage.Window, limit int) ([]storage.Record, error)
	FetchByIDs(ctx context.Context, ownerID int64, ids []int64) ([]storage.Record, error)
	FetchRecent(ctx context.Context, ownerID int64, limit int) ([]storage.Record, error)
	OwnerExists(ctx context.Context, ownerID int64) (bool, error)
}

// VectorRetriever ranks records by embedding similarity inside a window.
type VectorRetriever interface {
	VectorSearch(ctx context.Context, ownerID int64, vec []float32, w storage.Window, topK int) ([]storage.Hit, error)
}

// LexicalRetriever ranks records by term matches inside a window.
type LexicalRetriever interface {
	LexicalSearch(ctx context.Context, ownerID int64, query string, w storage.Window, topK int) ([]storage.Hit, error)
}
