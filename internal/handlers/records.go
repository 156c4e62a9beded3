package handlers

import (
	"net/http"
	"strconv"

	"journal-ai/internal/contextutil"
	"journal-ai/internal/service"
	"journal-ai/internal/storage"
)

// RecordsHandler handles storing and listing journal records.
type RecordsHandler struct {
	svc service.JournalService
}

// NewRecordsHandler creates a new RecordsHandler.
func NewRecordsHandler(svc service.JournalService) *RecordsHandler {
	return &RecordsHandler{svc: svc}
}

// RecordListResponse wraps a record listing.
//
// swagger:model RecordListResponse
type RecordListResponse struct {
	Records []storage.Record `json:"records"`
	Window  storage.Window   `json:"window"`
	Count   int              `json:"count"`
}

// Create handles POST /api/v1/owners/{ownerID}/records.
//
// swagger:route POST /api/v1/owners/{ownerID}/records createRecord
//
// Stores a record and indexes it. The record is kept when indexing fails.
//
// responses:
//
//	'201': Record
//	'400': ErrorResponse
//	'404': ErrorResponse
func (h *RecordsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	id, err := ownerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var in service.RecordInput
	if err := decodeJSON(r, w, &in); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := h.svc.AddRecord(ctx, id, in)
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to store record")
		return
	}
	writeJSON(ctx, w, http.StatusCreated, rec)
}

// List handles GET /api/v1/owners/{ownerID}/records?start=&end=&limit=.
//
// swagger:route GET /api/v1/owners/{ownerID}/records listRecords
//
// Lists records in an inclusive date window, newest first.
//
// responses:
//
//	'200': RecordListResponse
//	'400': ErrorResponse
//	'404': ErrorResponse
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := ownerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	window := storage.Window{Start: q.Get("start"), End: q.Get("end")}
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
	}

	recs, err := h.svc.ListRecords(ctx, id, window, limit)
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to list records")
		return
	}
	if recs == nil {
		recs = []storage.Record{}
	}
	writeJSON(ctx, w, http.StatusOK, RecordListResponse{Records: recs, Window: window, Count: len(recs)})
}
