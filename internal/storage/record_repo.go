package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_record_store.go -package=mocks journal-ai/internal/storage RecordStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// RecordStore defines journal record persistence and query operations.
type RecordStore interface {
	// Create inserts a record and sets its ID.
	Create(ctx context.Context, rec *Record) error
	// Get returns ErrNotFound if the record does not exist for the owner.
	Get(ctx context.Context, ownerID, id int64) (*Record, error)
	// FetchByOwnerAndWindow returns up to limit records in the window, newest first.
	FetchByOwnerAndWindow(ctx context.Context, ownerID int64, w Window, limit int) ([]Record, error)
	// FetchByIDs returns the owner's records in the order of ids. Unknown ids are skipped.
	FetchByIDs(ctx context.Context, ownerID int64, ids []int64) ([]Record, error)
	// FetchRecent returns the owner's newest records with no date filter.
	FetchRecent(ctx context.Context, ownerID int64, limit int) ([]Record, error)
	// ListByOwner returns every record of the owner, oldest first.
	ListByOwner(ctx context.Context, ownerID int64) ([]Record, error)
	// MarkEmbedded flags a record as present in the vector index.
	MarkEmbedded(ctx context.Context, ownerID, id int64) error
	// LexicalSearch ranks records in the window by how many query terms they contain.
	LexicalSearch(ctx context.Context, ownerID int64, query string, w Window, topK int) ([]Hit, error)
}

// RecordRepo implements RecordStore on SQLite.
type RecordRepo struct {
	db *sql.DB
}

// NewRecordRepo creates a new RecordRepo.
func NewRecordRepo(db *sql.DB) *RecordRepo {
	return &RecordRepo{db: db}
}

const recordColumns = `id, owner_id, record_date, content, mood_score, reflections,
	work_activities, personal_activities, learning_activities, health_activities,
	goals_achieved, challenges_faced, embedded`

// Create inserts a new record.
func (r *RecordRepo) Create(ctx context.Context, rec *Record) error {
	lists, err := encodeLists(rec)
	if err != nil {
		return err
	}

	var mood sql.NullInt64
	if rec.MoodScore != nil {
		mood = sql.NullInt64{Int64: int64(*rec.MoodScore), Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO records (owner_id, record_date, content, mood_score, reflections,
			work_activities, personal_activities, learning_activities, health_activities,
			goals_achieved, challenges_faced)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.OwnerID, rec.RecordDate, rec.Content, mood, rec.Reflections,
		lists[0], lists[1], lists[2], lists[3], lists[4], lists[5],
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get record id: %w", err)
	}
	rec.ID = id
	return nil
}

// Get returns a single record of the owner.
func (r *RecordRepo) Get(ctx context.Context, ownerID, id int64) (*Record, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM records WHERE owner_id = ? AND id = ?",
		ownerID, id,
	)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}
	return &rec, nil
}

// FetchByOwnerAndWindow returns up to limit records ordered by date descending.
func (r *RecordRepo) FetchByOwnerAndWindow(ctx context.Context, ownerID int64, w Window, limit int) ([]Record, error) {
	where, args := windowWhere(ownerID, w)
	args = append(args, limit)
	return r.query(ctx,
		"SELECT "+recordColumns+" FROM records WHERE "+where+" ORDER BY record_date DESC, id DESC LIMIT ?",
		args...,
	)
}

// FetchByIDs hydrates records in a single query and returns them in ids order.
func (r *RecordRepo) FetchByIDs(ctx context.Context, ownerID int64, ids []int64) ([]Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	args = append(args, ownerID)
	for _, id := range ids {
		args = append(args, id)
	}

	records, err := r.query(ctx,
		"SELECT "+recordColumns+" FROM records WHERE owner_id = ? AND id IN ("+placeholders+")",
		args...,
	)
	if err != nil {
		return nil, err
	}
	return OrderByIDs(records, ids), nil
}

// FetchRecent returns the newest records of the owner regardless of date.
func (r *RecordRepo) FetchRecent(ctx context.Context, ownerID int64, limit int) ([]Record, error) {
	return r.FetchByOwnerAndWindow(ctx, ownerID, Window{}, limit)
}

// ListByOwner returns all records of the owner ordered by date ascending.
func (r *RecordRepo) ListByOwner(ctx context.Context, ownerID int64) ([]Record, error) {
	return r.query(ctx,
		"SELECT "+recordColumns+" FROM records WHERE owner_id = ? ORDER BY record_date ASC, id ASC",
		ownerID,
	)
}

// MarkEmbedded sets the embedded flag on a record.
func (r *RecordRepo) MarkEmbedded(ctx context.Context, ownerID, id int64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE records SET embedded = 1 WHERE owner_id = ? AND id = ?", ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to mark record embedded: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// LexicalSearch runs an OR-of-terms match over content and reflections.
// Any single term is enough for a record to qualify; more matched terms rank higher.
func (r *RecordRepo) LexicalSearch(ctx context.Context, ownerID int64, query string, w Window, topK int) ([]Hit, error) {
	terms := LexicalTerms(query)
	if len(terms) == 0 {
		return nil, ErrNoTerms
	}

	score, scoreArgs, match, matchArgs := LexicalClause(terms, "LIKE")
	where, whereArgs := windowWhere(ownerID, w)

	args := make([]any, 0, len(scoreArgs)+len(whereArgs)+len(matchArgs)+1)
	args = append(args, scoreArgs...)
	args = append(args, whereArgs...)
	args = append(args, matchArgs...)
	args = append(args, topK)

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, ("+score+") AS score FROM records WHERE "+where+" AND "+match+
			" ORDER BY score DESC, record_date DESC, id DESC LIMIT ?",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to run lexical search: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var hits []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.RecordID, &h.Score); err != nil {
			return nil, fmt.Errorf("failed to scan lexical hit: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lexical hits: %w", err)
	}
	return hits, nil
}

func (r *RecordRepo) query(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return records, nil
}

// windowWhere returns the owner and date bounds condition for a window.
func windowWhere(ownerID int64, w Window) (string, []any) {
	conds := []string{"owner_id = ?"}
	args := []any{ownerID}
	if w.Start != "" {
		conds = append(conds, "record_date >= ?")
		args = append(args, w.Start)
	}
	if w.End != "" {
		conds = append(conds, "record_date <= ?")
		args = append(args, w.End)
	}
	return strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(s rowScanner) (Record, error) {
	var rec Record
	var mood sql.NullInt64
	var lists [6]string
	var embedded int
	err := s.Scan(&rec.ID, &rec.OwnerID, &rec.RecordDate, &rec.Content, &mood, &rec.Reflections,
		&lists[0], &lists[1], &lists[2], &lists[3], &lists[4], &lists[5], &embedded)
	if err != nil {
		return Record{}, err
	}
	if mood.Valid {
		m := int(mood.Int64)
		rec.MoodScore = &m
	}
	rec.Embedded = embedded != 0

	targets := []*[]string{
		&rec.WorkActivities, &rec.PersonalActivities, &rec.LearningActivities,
		&rec.HealthActivities, &rec.GoalsAchieved, &rec.ChallengesFaced,
	}
	for i, raw := range lists {
		if err := json.Unmarshal([]byte(raw), targets[i]); err != nil {
			return Record{}, fmt.Errorf("failed to decode activity list: %w", err)
		}
	}
	return rec, nil
}

func encodeLists(rec *Record) ([6]string, error) {
	var out [6]string
	lists := [][]string{
		rec.WorkActivities, rec.PersonalActivities, rec.LearningActivities,
		rec.HealthActivities, rec.GoalsAchieved, rec.ChallengesFaced,
	}
	for i, l := range lists {
		if l == nil {
			l = []string{}
		}
		b, err := json.Marshal(l)
		if err != nil {
			return out, fmt.Errorf("failed to encode activity list: %w", err)
		}
		out[i] = string(b)
	}
	return out, nil
}

// OrderByIDs reorders records to follow ids, dropping any id without a record.
func OrderByIDs(records []Record, ids []int64) []Record {
	byID := make(map[int64]Record, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}
	ordered := make([]Record, 0, len(ids))
	for _, id := range ids {
		if rec, ok := byID[id]; ok {
			ordered = append(ordered, rec)
		}
	}
	return ordered
}
