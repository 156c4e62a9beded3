package handlers

import (
	"net/http"

	"journal-ai/internal/contextutil"
	"journal-ai/internal/service"
)

// AskHandler handles HTTP requests for journal questions.
type AskHandler struct {
	svc service.JournalService
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(svc service.JournalService) *AskHandler {
	return &AskHandler{svc: svc}
}

// AskRequest represents the HTTP request payload for a question.
//
// swagger:model AskRequest
type AskRequest struct {
	Query string `json:"query"`
}

// ServeHTTP handles POST /api/v1/owners/{ownerID}/ask.
//
// swagger:route POST /api/v1/owners/{ownerID}/ask askJournal
//
// Answers a question from the owner's journal records.
//
// The response always carries answer, evidence, trend_analysis, insights,
// sources, confidence, used_semantic_retrieval and attempts.
//
// responses:
//
//	'200': FinalAnswer
//	'400': ErrorResponse
//	'404': ErrorResponse
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	id, err := ownerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req AskRequest
	if err := decodeJSON(r, w, &req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ans, err := h.svc.Ask(ctx, id, req.Query)
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to answer query")
		return
	}

	logger.InfoContext(ctx, "ask request processed",
		"owner_id", id,
		"confidence", ans.Confidence,
		"semantic", ans.UsedSemanticRetrieval,
		"attempts", len(ans.Attempts),
	)
	writeJSON(ctx, w, http.StatusOK, ans)
}
