package handlers

import (
	"errors"
	"net/http"

	"journal-ai/internal/service"
)

// ReindexHandler re-embeds an owner's records.
type ReindexHandler struct {
	svc service.JournalService
}

// NewReindexHandler creates a new ReindexHandler.
func NewReindexHandler(svc service.JournalService) *ReindexHandler {
	return &ReindexHandler{svc: svc}
}

// ServeHTTP handles POST /api/v1/owners/{ownerID}/reindex.
//
// swagger:route POST /api/v1/owners/{ownerID}/reindex reindexOwner
//
// Re-embeds every record of the owner and returns index statistics.
// A run where every record failed answers 502 with the stats attached.
//
// responses:
//
//	'200': IndexStats
//	'404': ErrorResponse
//	'502': IndexStats
func (h *ReindexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := ownerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := h.svc.Reindex(ctx, id)
	if err != nil {
		if stats != nil && errors.Is(err, service.ErrExternalService) {
			writeJSON(ctx, w, http.StatusBadGateway, stats)
			return
		}
		writeServiceError(ctx, w, err, "Failed to reindex")
		return
	}
	writeJSON(ctx, w, http.StatusOK, stats)
}
