// Package app wires configuration into stores, model clients, the retrieval
// engine and the journal service. The HTTP server, the CLI and the MCP server
// share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"journal-ai/internal/config"
	"journal-ai/internal/handlers"
	"journal-ai/internal/indexer"
	"journal-ai/internal/llm"
	"journal-ai/internal/rag"
	"journal-ai/internal/service"
	"journal-ai/internal/storage"
	"journal-ai/internal/storage/pgstore"
	"journal-ai/internal/vault"
	"journal-ai/internal/vectorstore"
)

// recordStore is what every relational backend provides.
type recordStore interface {
	storage.RecordStore
	storage.OwnerStore
}

// sqliteRecords joins the SQLite record and owner repositories into one store.
type sqliteRecords struct {
	*storage.RecordRepo
	owners *storage.OwnerRepo
}

func (s sqliteRecords) GetOrCreateByName(ctx context.Context, name string) (storage.Owner, error) {
	return s.owners.GetOrCreateByName(ctx, name)
}

func (s sqliteRecords) GetByID(ctx context.Context, id int64) (storage.Owner, error) {
	return s.owners.GetByID(ctx, id)
}

func (s sqliteRecords) OwnerExists(ctx context.Context, id int64) (bool, error) {
	return s.owners.OwnerExists(ctx, id)
}

// vectorBackend serves both sides of the vector index.
type vectorBackend interface {
	rag.VectorRetriever
	indexer.VectorIndex
}

// App holds the wired components.
type App struct {
	Config   *config.Config
	Service  service.JournalService
	Engine   rag.Engine
	Pipeline *indexer.Pipeline
	Importer *vault.Importer

	embeddings   *llm.EmbeddingsClient
	healthChecks []handlers.HealthCheck
	closers      []io.Closer
}

// New opens the configured storage and vector backends and builds the service.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	records, err := a.openRecords(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	vectors, err := a.openVectors(ctx, records)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.embeddings = llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.VectorSize)
	queryEmbedder := llm.NewCachedEmbedder(a.embeddings, cfg.EmbeddingModelName, cfg.EmbeddingCacheTTL)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName).
		WithRateLimit(cfg.LLMRateLimitRPS, cfg.LLMRateLimitBurst)

	probe := llm.NewModelProbe(cfg.LLMBaseURL)
	a.healthChecks = append(a.healthChecks, handlers.HealthCheck{
		Name: "llm",
		Check: func(ctx context.Context) error {
			ok, err := probe.ModelAvailable(ctx, cfg.LLMModelName)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("model %s is not available", cfg.LLMModelName)
			}
			return nil
		},
	})

	a.Engine = rag.NewEngine(llmClient, queryEmbedder, records, vectors, records, nil)
	a.Pipeline = indexer.NewPipeline(records, a.embeddings, vectors, cfg.IndexConcurrency, cfg.EmbeddingModelName)
	var extractor service.Extractor
	if cfg.ExtractFields {
		extractor = rag.NewExtractor(llmClient)
	}
	a.Service = service.NewJournalService(records, records, a.Engine, a.Pipeline, extractor)
	a.Importer = vault.NewImporter(a.Service)

	slog.InfoContext(ctx, "journal service initialized",
		"storage", cfg.StorageDriver,
		"vector_backend", cfg.VectorBackend,
		"llm_model", cfg.LLMModelName,
		"embedding_model", cfg.EmbeddingModelName,
	)
	return a, nil
}

func (a *App) openRecords(ctx context.Context) (recordStore, error) {
	cfg := a.Config
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		db, err := pgstore.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		a.closers = append(a.closers, sqlDB)
		if err := pgstore.Migrate(db); err != nil {
			return nil, err
		}
		a.healthChecks = append(a.healthChecks, handlers.HealthCheck{Name: "database", Critical: true, Check: sqlDB.PingContext})
		slog.InfoContext(ctx, "database initialized", "driver", cfg.StorageDriver)
		return pgstore.NewRepo(db), nil

	default:
		db, err := storage.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.closers = append(a.closers, db)
		if err := storage.Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		a.healthChecks = append(a.healthChecks, handlers.HealthCheck{Name: "database", Critical: true, Check: db.PingContext})
		slog.InfoContext(ctx, "database initialized", "driver", cfg.StorageDriver, "path", cfg.DBPath)
		return sqliteRecords{RecordRepo: storage.NewRecordRepo(db), owners: storage.NewOwnerRepo(db)}, nil
	}
}

func (a *App) openVectors(ctx context.Context, records recordStore) (vectorBackend, error) {
	cfg := a.Config
	if cfg.VectorBackend == config.BackendPGVector {
		repo, ok := records.(*pgstore.Repo)
		if !ok {
			return nil, errors.New("pgvector backend requires the postgres record store")
		}
		return repo, nil
	}

	store, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store)
	if err := store.EnsureCollection(ctx, cfg.QdrantCollection, cfg.VectorSize); err != nil {
		return nil, fmt.Errorf("failed to ensure Qdrant collection: %w", err)
	}
	slog.InfoContext(ctx, "Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.VectorSize)

	a.healthChecks = append(a.healthChecks, handlers.HealthCheck{
		Name:     "vector_store",
		Critical: true,
		Check: func(ctx context.Context) error {
			exists, err := store.CollectionExists(ctx, cfg.QdrantCollection)
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("collection %s does not exist", cfg.QdrantCollection)
			}
			return nil
		},
	})
	return vectorstore.NewRecordIndex(store, cfg.QdrantCollection), nil
}

// HealthChecks returns the dependency probes for the health endpoint.
func (a *App) HealthChecks() []handlers.HealthCheck {
	return a.healthChecks
}

// ValidateEmbeddings embeds a probe text and checks the vector size.
func (a *App) ValidateEmbeddings(ctx context.Context) error {
	vecs, err := a.embeddings.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		return fmt.Errorf("failed to validate embedding client: %w", err)
	}
	if len(vecs) == 0 || len(vecs[0]) != a.Config.VectorSize {
		got := 0
		if len(vecs) > 0 {
			got = len(vecs[0])
		}
		return fmt.Errorf("embedding vector size mismatch: expected %d, got %d", a.Config.VectorSize, got)
	}
	return nil
}

// Close releases every opened backend, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
