package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"journal-ai/internal/storage"
)

// Repo implements storage.OwnerStore and storage.RecordStore on Postgres,
// plus pgvector similarity search over the records table.
type Repo struct {
	db *gorm.DB
}

// NewRepo creates a new Repo.
func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// GetOrCreateByName returns the owner with the given name, creating it if needed.
func (r *Repo) GetOrCreateByName(ctx context.Context, name string) (storage.Owner, error) {
	m := ownerModel{Name: name}
	err := r.db.WithContext(ctx).
		Where(ownerModel{Name: name}).
		FirstOrCreate(&m).Error
	if err != nil {
		return storage.Owner{}, fmt.Errorf("failed to get or create owner: %w", err)
	}
	return storage.Owner{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt}, nil
}

// GetByID returns storage.ErrNotFound if the owner does not exist.
func (r *Repo) GetByID(ctx context.Context, id int64) (storage.Owner, error) {
	var m ownerModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.Owner{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Owner{}, fmt.Errorf("failed to query owner: %w", err)
	}
	return storage.Owner{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt}, nil
}

// OwnerExists reports whether the owner id is known.
func (r *Repo) OwnerExists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&ownerModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check owner: %w", err)
	}
	return n > 0, nil
}

// Create inserts a record and sets its ID.
func (r *Repo) Create(ctx context.Context, rec *storage.Record) error {
	m := toRecordModel(rec)
	m.ID = 0
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	rec.ID = m.ID
	return nil
}

// Get returns a single record of the owner.
func (r *Repo) Get(ctx context.Context, ownerID, id int64) (*storage.Record, error) {
	var m recordModel
	err := r.db.WithContext(ctx).Omit("embedding").Where("owner_id = ? AND id = ?", ownerID, id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}
	rec := m.toRecord()
	return &rec, nil
}

// FetchByOwnerAndWindow returns up to limit records ordered by date descending.
func (r *Repo) FetchByOwnerAndWindow(ctx context.Context, ownerID int64, w storage.Window, limit int) ([]storage.Record, error) {
	var models []recordModel
	err := r.windowed(ctx, ownerID, w).
		Omit("embedding").
		Order("record_date DESC, id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	return toRecords(models), nil
}

// FetchByIDs hydrates records in one query, preserving the order of ids.
func (r *Repo) FetchByIDs(ctx context.Context, ownerID int64, ids []int64) ([]storage.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []recordModel
	err := r.db.WithContext(ctx).
		Omit("embedding").
		Where("owner_id = ? AND id IN ?", ownerID, ids).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query records by id: %w", err)
	}
	return storage.OrderByIDs(toRecords(models), ids), nil
}

// FetchRecent returns the owner's newest records with no date filter.
func (r *Repo) FetchRecent(ctx context.Context, ownerID int64, limit int) ([]storage.Record, error) {
	return r.FetchByOwnerAndWindow(ctx, ownerID, storage.Window{}, limit)
}

// ListByOwner returns every record of the owner, oldest first.
func (r *Repo) ListByOwner(ctx context.Context, ownerID int64) ([]storage.Record, error) {
	var models []recordModel
	err := r.db.WithContext(ctx).
		Omit("embedding").
		Where("owner_id = ?", ownerID).
		Order("record_date ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return toRecords(models), nil
}

// MarkEmbedded flags a record as present in the vector index.
func (r *Repo) MarkEmbedded(ctx context.Context, ownerID, id int64) error {
	res := r.db.WithContext(ctx).Model(&recordModel{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Update("embedded", true)
	if res.Error != nil {
		return fmt.Errorf("failed to mark record embedded: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// UpsertEmbedding stores the record's vector in the embedding column.
func (r *Repo) UpsertEmbedding(ctx context.Context, ownerID, id int64, vec []float32) error {
	v := pgvector.NewVector(vec)
	res := r.db.WithContext(ctx).Model(&recordModel{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Updates(map[string]any{"embedding": v, "embedded": true})
	if res.Error != nil {
		return fmt.Errorf("failed to store embedding: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// IndexRecord stores the vector of rec. It lets the repo serve as the
// indexer's vector index when pgvector is the backend.
func (r *Repo) IndexRecord(ctx context.Context, rec storage.Record, vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("empty vector for record %d", rec.ID)
	}
	return r.UpsertEmbedding(ctx, rec.OwnerID, rec.ID, vec)
}

// VectorSearch ranks the owner's embedded records in the window by cosine similarity.
func (r *Repo) VectorSearch(ctx context.Context, ownerID int64, vec []float32, w storage.Window, topK int) ([]storage.Hit, error) {
	var hits []hitRow
	if err := r.vectorQuery(ctx, ownerID, vec, w, topK).Scan(&hits).Error; err != nil {
		return nil, fmt.Errorf("failed to run vector search: %w", err)
	}
	return toHits(hits), nil
}

// LexicalSearch runs a case-insensitive OR-of-terms match over content and reflections.
func (r *Repo) LexicalSearch(ctx context.Context, ownerID int64, query string, w storage.Window, topK int) ([]storage.Hit, error) {
	terms := storage.LexicalTerms(query)
	if len(terms) == 0 {
		return nil, storage.ErrNoTerms
	}
	var hits []hitRow
	if err := r.lexicalQuery(ctx, ownerID, terms, w, topK).Scan(&hits).Error; err != nil {
		return nil, fmt.Errorf("failed to run lexical search: %w", err)
	}
	return toHits(hits), nil
}

type hitRow struct {
	ID    int64
	Score float64
}

func (r *Repo) vectorQuery(ctx context.Context, ownerID int64, vec []float32, w storage.Window, topK int) *gorm.DB {
	qv := pgvector.NewVector(vec)
	return r.windowed(ctx, ownerID, w).
		Select("id, 1 - (embedding <=> ?) AS score", qv).
		Where("embedding IS NOT NULL").
		Order(clause.OrderBy{Expression: clause.Expr{SQL: "embedding <=> ?, id DESC", Vars: []any{qv}, WithoutParentheses: true}}).
		Limit(topK)
}

func (r *Repo) lexicalQuery(ctx context.Context, ownerID int64, terms []string, w storage.Window, topK int) *gorm.DB {
	score, scoreArgs, match, matchArgs := storage.LexicalClause(terms, "ILIKE")
	return r.windowed(ctx, ownerID, w).
		Select("id, ("+score+") AS score", scoreArgs...).
		Where(match, matchArgs...).
		Order("score DESC, record_date DESC, id DESC").
		Limit(topK)
}

func (r *Repo) windowed(ctx context.Context, ownerID int64, w storage.Window) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&recordModel{}).Where("owner_id = ?", ownerID)
	if w.Start != "" {
		q = q.Where("record_date >= ?", w.Start)
	}
	if w.End != "" {
		q = q.Where("record_date <= ?", w.End)
	}
	return q
}

func toRecords(models []recordModel) []storage.Record {
	out := make([]storage.Record, 0, len(models))
	for _, m := range models {
		out = append(out, m.toRecord())
	}
	return out
}

func toHits(rows []hitRow) []storage.Hit {
	hits := make([]storage.Hit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, storage.Hit{RecordID: row.ID, Score: row.Score})
	}
	return hits
}
