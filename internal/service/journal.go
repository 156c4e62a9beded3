package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_journal_service.go -package=mocks -mock_names=JournalService=MockJournalService journal-ai/internal/service JournalService,Indexer

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"journal-ai/internal/contextutil"
	"journal-ai/internal/indexer"
	"journal-ai/internal/rag"
	"journal-ai/internal/storage"

	"github.com/go-playground/validator/v10"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Indexer embeds records into the vector backend.
type Indexer interface {
	IndexRecord(ctx context.Context, rec storage.Record) error
	ReindexOwner(ctx context.Context, ownerID int64) (*indexer.IndexStats, error)
}

// Extractor derives structured fields from an entry's content.
type Extractor interface {
	Extract(ctx context.Context, content string) (rag.RecordFields, error)
}

// RecordInput is a journal entry submitted by a caller.
type RecordInput struct {
	RecordDate         string   `json:"record_date" validate:"required,datetime=2006-01-02"`
	Content            string   `json:"content" validate:"required"`
	MoodScore          *int     `json:"mood_score,omitempty" validate:"omitempty,min=1,max=10"`
	Reflections        string   `json:"reflections,omitempty"`
	WorkActivities     []string `json:"work_activities,omitempty"`
	PersonalActivities []string `json:"personal_activities,omitempty"`
	LearningActivities []string `json:"learning_activities,omitempty"`
	HealthActivities   []string `json:"health_activities,omitempty"`
	GoalsAchieved      []string `json:"goals_achieved,omitempty"`
	ChallengesFaced    []string `json:"challenges_faced,omitempty"`
}

// JournalService is the caller-facing API shared by HTTP, the CLI and MCP.
type JournalService interface {
	// CreateOwner returns the owner with the name, creating it if needed.
	CreateOwner(ctx context.Context, name string) (storage.Owner, error)
	// AddRecord validates, stores and indexes a record. An index failure is
	// logged and leaves the record searchable lexically.
	AddRecord(ctx context.Context, ownerID int64, in RecordInput) (*storage.Record, error)
	// ListRecords returns the owner's records in the window, newest first.
	ListRecords(ctx context.Context, ownerID int64, w storage.Window, limit int) ([]storage.Record, error)
	// Ask answers a question about the owner's journal.
	Ask(ctx context.Context, ownerID int64, query string) (rag.FinalAnswer, error)
	// Reindex re-embeds every record of the owner.
	Reindex(ctx context.Context, ownerID int64) (*indexer.IndexStats, error)
}

// journalService implements JournalService.
type journalService struct {
	owners   storage.OwnerStore
	records  storage.RecordStore
	engine   rag.Engine
	indexer   Indexer
	extractor Extractor
	validate  *validator.Validate
}

// NewJournalService creates a new JournalService. A nil extractor stores
// records exactly as submitted.
func NewJournalService(owners storage.OwnerStore, records storage.RecordStore, engine rag.Engine, idx Indexer, extractor Extractor) JournalService {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return &journalService{
		owners:    owners,
		records:   records,
		engine:    engine,
		indexer:   idx,
		extractor: extractor,
		validate:  v,
	}
}

// CreateOwner creates an owner by name.
func (s *journalService) CreateOwner(ctx context.Context, name string) (storage.Owner, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.Owner{}, &ValidationError{Field: "name", Message: "cannot be empty"}
	}
	owner, err := s.owners.GetOrCreateByName(ctx, name)
	if err != nil {
		return storage.Owner{}, WrapError(err, "failed to create owner")
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "owner ready", "owner_id", owner.ID, "name", owner.Name)
	return owner, nil
}

// AddRecord stores a record and indexes it.
func (s *journalService) AddRecord(ctx context.Context, ownerID int64, in RecordInput) (*storage.Record, error) {
	logger := contextutil.LoggerFromContext(ctx)

	in.Content = strings.TrimSpace(in.Content)
	if err := s.validate.StructCtx(ctx, in); err != nil {
		logger.WarnContext(ctx, "invalid record input", "owner_id", ownerID, "error", err)
		return nil, toValidationError(err)
	}
	if err := s.requireOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	if s.extractor != nil && !in.hasActivities() {
		s.fillExtracted(ctx, &in)
	}

	rec := &storage.Record{
		OwnerID:            ownerID,
		RecordDate:         in.RecordDate,
		Content:            in.Content,
		MoodScore:          in.MoodScore,
		Reflections:        strings.TrimSpace(in.Reflections),
		WorkActivities:     in.WorkActivities,
		PersonalActivities: in.PersonalActivities,
		LearningActivities: in.LearningActivities,
		HealthActivities:   in.HealthActivities,
		GoalsAchieved:      in.GoalsAchieved,
		ChallengesFaced:    in.ChallengesFaced,
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, WrapError(err, "failed to store record")
	}

	if err := s.indexer.IndexRecord(ctx, *rec); err != nil {
		logger.WarnContext(ctx, "record stored but not indexed", "owner_id", ownerID, "record_id", rec.ID, "error", err)
	} else {
		rec.Embedded = true
	}

	logger.InfoContext(ctx, "record added", "owner_id", ownerID, "record_id", rec.ID, "record_date", rec.RecordDate, "embedded", rec.Embedded)
	return rec, nil
}

// fillExtracted sets the fields the caller left empty. Extraction failure
// keeps the input as submitted.
func (s *journalService) fillExtracted(ctx context.Context, in *RecordInput) {
	f, err := s.extractor.Extract(ctx, in.Content)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "field extraction failed, storing as submitted", "record_date", in.RecordDate, "error", err)
		return
	}
	if in.MoodScore == nil {
		in.MoodScore = f.MoodScore
	}
	if strings.TrimSpace(in.Reflections) == "" {
		in.Reflections = f.Reflections
	}
	in.WorkActivities = f.WorkActivities
	in.PersonalActivities = f.PersonalActivities
	in.LearningActivities = f.LearningActivities
	in.HealthActivities = f.HealthActivities
	in.GoalsAchieved = f.GoalsAchieved
	in.ChallengesFaced = f.ChallengesFaced
}

func (in RecordInput) hasActivities() bool {
	return len(in.WorkActivities) > 0 || len(in.PersonalActivities) > 0 || len(in.LearningActivities) > 0 ||
		len(in.HealthActivities) > 0 || len(in.GoalsAchieved) > 0 || len(in.ChallengesFaced) > 0
}

// ListRecords lists records in a window.
func (s *journalService) ListRecords(ctx context.Context, ownerID int64, w storage.Window, limit int) ([]storage.Record, error) {
	if w.Start != "" && !validDate(w.Start) {
		return nil, &ValidationError{Field: "start", Message: "must be a YYYY-MM-DD date"}
	}
	if w.End != "" && !validDate(w.End) {
		return nil, &ValidationError{Field: "end", Message: "must be a YYYY-MM-DD date"}
	}
	if w.Start != "" && w.End != "" && w.Start > w.End {
		return nil, &ValidationError{Field: "start", Message: "must not be after end"}
	}
	switch {
	case limit < 0:
		return nil, &ValidationError{Field: "limit", Message: "must not be negative"}
	case limit == 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}

	if err := s.requireOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	recs, err := s.records.FetchByOwnerAndWindow(ctx, ownerID, w, limit)
	if err != nil {
		return nil, WrapError(err, "failed to list records")
	}
	return recs, nil
}

// Ask runs the retrieval engine.
func (s *journalService) Ask(ctx context.Context, ownerID int64, query string) (rag.FinalAnswer, error) {
	ans, err := s.engine.Respond(ctx, ownerID, query)
	switch {
	case err == nil:
		return ans, nil
	case errors.Is(err, rag.ErrEmptyQuery):
		return rag.FinalAnswer{}, &ValidationError{Field: "query", Message: "cannot be empty"}
	case errors.Is(err, rag.ErrUnknownOwner):
		return rag.FinalAnswer{}, fmt.Errorf("owner %d: %w", ownerID, ErrNotFound)
	default:
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to answer query", "owner_id", ownerID, "error", err)
		return rag.FinalAnswer{}, WrapError(err, "failed to answer query")
	}
}

// Reindex re-embeds the owner's records. When every attempted record fails the
// stats are returned together with ErrExternalService.
func (s *journalService) Reindex(ctx context.Context, ownerID int64) (*indexer.IndexStats, error) {
	if err := s.requireOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	stats, err := s.indexer.ReindexOwner(ctx, ownerID)
	if err != nil {
		return nil, WrapError(err, "failed to reindex owner")
	}
	if stats.RecordsFailed > 0 && stats.RecordsEmbedded == 0 {
		return stats, fmt.Errorf("no record of owner %d could be indexed: %w", ownerID, ErrExternalService)
	}
	return stats, nil
}

func (s *journalService) requireOwner(ctx context.Context, ownerID int64) error {
	ok, err := s.owners.OwnerExists(ctx, ownerID)
	if err != nil {
		return WrapError(err, "failed to look up owner")
	}
	if !ok {
		return fmt.Errorf("owner %d: %w", ownerID, ErrNotFound)
	}
	return nil
}

// toValidationError reports the first failing field.
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	fe := verrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "cannot be empty"
	case "datetime":
		msg = "must be a YYYY-MM-DD date"
	case "min", "max":
		msg = "must be between 1 and 10"
	default:
		msg = "failed " + fe.Tag() + " check"
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

func validDate(s string) bool {
	_, err := time.Parse(storage.DateLayout, s)
	return err == nil
}
