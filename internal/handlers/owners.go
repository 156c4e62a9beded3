package handlers

import (
	"net/http"
	"time"

	"journal-ai/internal/contextutil"
	"journal-ai/internal/service"
)

// OwnersHandler handles owner creation.
type OwnersHandler struct {
	svc service.JournalService
}

// NewOwnersHandler creates a new OwnersHandler.
func NewOwnersHandler(svc service.JournalService) *OwnersHandler {
	return &OwnersHandler{svc: svc}
}

// CreateOwnerRequest is the payload for creating an owner.
//
// swagger:model CreateOwnerRequest
type CreateOwnerRequest struct {
	Name string `json:"name"`
}

// OwnerResponse describes an owner.
//
// swagger:model OwnerResponse
type OwnerResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// Create handles POST /api/v1/owners.
//
// swagger:route POST /api/v1/owners createOwner
//
// Creates an owner, or returns the existing owner with the same name.
//
// responses:
//
//	'201': OwnerResponse
//	'400': ErrorResponse
func (h *OwnersHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateOwnerRequest
	if err := decodeJSON(r, w, &req); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	owner, err := h.svc.CreateOwner(ctx, req.Name)
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to create owner")
		return
	}

	writeJSON(ctx, w, http.StatusCreated, OwnerResponse{
		ID:        owner.ID,
		Name:      owner.Name,
		CreatedAt: owner.CreatedAt.UTC().Format(time.RFC3339),
	})
}
