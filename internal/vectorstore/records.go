package vectorstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"journal-ai/internal/storage"
)

var pointNamespace = uuid.MustParse("6f1d3c1e-2b7a-4c55-9a0e-8f5b1d2e7c40")

// PointID derives a stable point id for a record, so re-indexing overwrites
// the previous vector instead of adding a duplicate.
func PointID(ownerID, recordID int64) string {
	return uuid.NewSHA1(pointNamespace, []byte(fmt.Sprintf("%d:%d", ownerID, recordID))).String()
}

// DayNumber encodes an ISO date as YYYYMMDD. Empty or malformed input yields 0.
func DayNumber(date string) int {
	if _, err := time.Parse(storage.DateLayout, date); err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(date, "-", ""))
	if err != nil {
		return 0
	}
	return n
}

// RecordIndex maps journal records onto a VectorStore collection.
type RecordIndex struct {
	store      VectorStore
	collection string
}

// NewRecordIndex creates a RecordIndex over the given collection.
func NewRecordIndex(store VectorStore, collection string) *RecordIndex {
	return &RecordIndex{store: store, collection: collection}
}

// IndexRecord upserts the record's vector with owner and date payload.
func (ri *RecordIndex) IndexRecord(ctx context.Context, rec storage.Record, vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("empty vector for record %d", rec.ID)
	}
	return ri.store.Upsert(ctx, ri.collection, []Point{{
		ID:  PointID(rec.OwnerID, rec.ID),
		Vec: vec,
		Meta: map[string]any{
			FieldOwnerID:    rec.OwnerID,
			FieldRecordID:   rec.ID,
			FieldRecordDate: rec.RecordDate,
			FieldRecordDay:  int64(DayNumber(rec.RecordDate)),
		},
	}})
}

// RemoveRecord deletes the record's point.
func (ri *RecordIndex) RemoveRecord(ctx context.Context, ownerID, recordID int64) error {
	return ri.store.Delete(ctx, ri.collection, []string{PointID(ownerID, recordID)})
}

// VectorSearch returns the owner's nearest records inside the window.
func (ri *RecordIndex) VectorSearch(ctx context.Context, ownerID int64, vec []float32, w storage.Window, topK int) ([]storage.Hit, error) {
	results, err := ri.store.Search(ctx, ri.collection, vec, topK, Filter{
		OwnerID: ownerID,
		FromDay: DayNumber(w.Start),
		ToDay:   DayNumber(w.End),
	})
	if err != nil {
		return nil, err
	}

	hits := make([]storage.Hit, 0, len(results))
	for _, r := range results {
		id, ok := recordID(r.Meta)
		if !ok {
			continue
		}
		hits = append(hits, storage.Hit{RecordID: id, Score: float64(r.Score)})
	}
	return hits, nil
}

func recordID(meta map[string]any) (int64, bool) {
	switch v := meta[FieldRecordID].(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	}
	return 0, false
}
