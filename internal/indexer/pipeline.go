package indexer

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_indexer.go -package=mocks journal-ai/internal/indexer Embedder,VectorIndex,RecordLister

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"journal-ai/internal/contextutil"
	"journal-ai/internal/storage"
)

// ErrNoText is returned when a record has nothing to embed.
var ErrNoText = errors.New("record has no text to embed")

// Embedder produces document vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex stores record vectors: a Qdrant collection or the pgvector column.
type VectorIndex interface {
	IndexRecord(ctx context.Context, rec storage.Record, vec []float32) error
}

// RecordLister is the relational side the pipeline reads and flags.
type RecordLister interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]storage.Record, error)
	MarkEmbedded(ctx context.Context, ownerID, id int64) error
}

// Pipeline embeds journal records and writes them to the vector index.
type Pipeline struct {
	records     RecordLister
	embedder    Embedder
	index       VectorIndex
	extractor   *TextExtractor
	concurrency int
	modelName   string
}

// NewPipeline creates a new indexing pipeline. concurrency bounds ReindexOwner.
func NewPipeline(records RecordLister, embedder Embedder, index VectorIndex, concurrency int, modelName string) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		records:     records,
		embedder:    embedder,
		index:       index,
		extractor:   NewTextExtractor(),
		concurrency: concurrency,
		modelName:   modelName,
	}
}

// IndexRecord embeds a single record, stores its vector and flags it as embedded.
func (p *Pipeline) IndexRecord(ctx context.Context, rec storage.Record) error {
	_, err := p.indexRecord(ctx, rec)
	return err
}

func (p *Pipeline) indexRecord(ctx context.Context, rec storage.Record) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	text := p.extractor.EmbeddingText(rec)
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}

	vec, err := p.embedder.Embed(ctx, text)
	if err != nil {
		return text, fmt.Errorf("failed to embed record %d: %w", rec.ID, err)
	}
	if err := p.index.IndexRecord(ctx, rec, vec); err != nil {
		return text, fmt.Errorf("failed to store vector for record %d: %w", rec.ID, err)
	}
	if err := p.records.MarkEmbedded(ctx, rec.OwnerID, rec.ID); err != nil {
		return text, fmt.Errorf("failed to mark record %d embedded: %w", rec.ID, err)
	}

	logger.DebugContext(ctx, "indexed record", "owner_id", rec.OwnerID, "record_id", rec.ID, "record_date", rec.RecordDate)
	return text, nil
}

// ReindexOwner re-embeds every record of the owner with bounded parallelism.
// Errors for individual records are logged and counted but don't stop the run;
// only listing failures and cancellation are returned.
func (p *Pipeline) ReindexOwner(ctx context.Context, ownerID int64) (*IndexStats, error) {
	logger := contextutil.LoggerFromContext(ctx)
	started := time.Now()

	recs, err := p.records.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	logger.InfoContext(ctx, "starting reindex", "owner_id", ownerID, "records", len(recs), "concurrency", p.concurrency)

	var (
		mu      sync.Mutex
		tally   = newTally(len(recs))
		g, gctx = errgroup.WithContext(ctx)
	)
	g.SetLimit(p.concurrency)

	for _, rec := range recs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, err := p.indexRecord(gctx, rec)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, ErrNoText):
				tally.skip("empty")
			case err != nil:
				tally.fail(rec.ID)
				logger.ErrorContext(ctx, "failed to index record", "record_id", rec.ID, "error", err)
			default:
				tally.embed(text)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := tally.stats(ownerID, p.modelName, time.Since(started))
	logger.InfoContext(ctx, "reindex completed",
		"owner_id", ownerID,
		"embedded", stats.RecordsEmbedded,
		"skipped", stats.RecordsSkipped,
		"failed", stats.RecordsFailed,
		"duration", stats.Duration,
	)
	return stats, nil
}
