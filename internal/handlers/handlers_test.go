package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"journal-ai/internal/indexer"
	"journal-ai/internal/rag"
	"journal-ai/internal/service"
	"journal-ai/internal/service/mocks"
	"journal-ai/internal/storage"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

// newRequest builds a request with the {ownerID} route parameter set.
func newRequest(method, target, owner, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rctx := chi.NewRouteContext()
	if owner != "" {
		rctx.URLParams.Add("ownerID", owner)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantField  string
	}{
		{name: "validation", err: &service.ValidationError{Field: "mood_score", Message: "must be between 1 and 10"}, wantStatus: http.StatusBadRequest, wantField: "mood_score"},
		{name: "wrapped validation", err: fmt.Errorf("add: %w", &service.ValidationError{Field: "content", Message: "cannot be empty"}), wantStatus: http.StatusBadRequest, wantField: "content"},
		{name: "invalid input", err: fmt.Errorf("%w: bad", service.ErrInvalidInput), wantStatus: http.StatusBadRequest},
		{name: "not found", err: fmt.Errorf("owner 3: %w", service.ErrNotFound), wantStatus: http.StatusNotFound},
		{name: "external", err: fmt.Errorf("embed: %w", service.ErrExternalService), wantStatus: http.StatusBadGateway},
		{name: "timeout", err: fmt.Errorf("answer: %w", context.DeadlineExceeded), wantStatus: http.StatusServiceUnavailable},
		{name: "other", err: errors.New("db closed"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeServiceError(context.Background(), w, tt.err, "Failed")

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			resp := decodeBody[ErrorResponse](t, w)
			if resp.Error == "" || resp.Field != tt.wantField {
				t.Errorf("response = %+v, want field %q", resp, tt.wantField)
			}
		})
	}
}

func TestOwnersHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(svc *mocks.MockJournalService)
		wantStatus int
	}{
		{
			name: "created",
			body: `{"name":"alice"}`,
			setup: func(svc *mocks.MockJournalService) {
				svc.EXPECT().CreateOwner(gomock.Any(), "alice").
					Return(storage.Owner{ID: 4, Name: "alice", CreatedAt: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "malformed body",
			body:       `{"name":`,
			setup:      func(*mocks.MockJournalService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field",
			body:       `{"nickname":"a"}`,
			setup:      func(*mocks.MockJournalService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "blank name",
			body: `{"name":" "}`,
			setup: func(svc *mocks.MockJournalService) {
				svc.EXPECT().CreateOwner(gomock.Any(), " ").
					Return(storage.Owner{}, &service.ValidationError{Field: "name", Message: "cannot be empty"})
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockJournalService(ctrl)
			tt.setup(svc)

			w := httptest.NewRecorder()
			NewOwnersHandler(svc).Create(w, newRequest(http.MethodPost, "/api/v1/owners", "", tt.body))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus == http.StatusCreated {
				resp := decodeBody[OwnerResponse](t, w)
				if resp.ID != 4 || resp.CreatedAt != "2025-03-01T08:00:00Z" {
					t.Errorf("response = %+v", resp)
				}
			}
		})
	}
}

func TestRecordsHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockJournalService(ctrl)
	h := NewRecordsHandler(svc)

	mood := 8
	svc.EXPECT().AddRecord(gomock.Any(), int64(2), service.RecordInput{
		RecordDate: "2025-03-10", Content: "跑步", MoodScore: &mood, HealthActivities: []string{"跑步"},
	}).Return(&storage.Record{ID: 11, OwnerID: 2, RecordDate: "2025-03-10", Content: "跑步", Embedded: true}, nil)

	w := httptest.NewRecorder()
	h.Create(w, newRequest(http.MethodPost, "/api/v1/owners/2/records", "2",
		`{"record_date":"2025-03-10","content":"跑步","mood_score":8,"health_activities":["跑步"]}`))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	rec := decodeBody[storage.Record](t, w)
	if rec.ID != 11 || !rec.Embedded {
		t.Errorf("record = %+v", rec)
	}

	t.Run("bad owner id", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Create(w, newRequest(http.MethodPost, "/api/v1/owners/0/records", "0", `{}`))
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("unknown owner", func(t *testing.T) {
		svc.EXPECT().AddRecord(gomock.Any(), int64(9), gomock.Any()).Return(nil, fmt.Errorf("owner 9: %w", service.ErrNotFound))
		w := httptest.NewRecorder()
		h.Create(w, newRequest(http.MethodPost, "/api/v1/owners/9/records", "9", `{"record_date":"2025-03-10","content":"x"}`))
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}

func TestRecordsHandler_List(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		setup      func(svc *mocks.MockJournalService)
		wantStatus int
		wantCount  int
	}{
		{
			name:   "window and limit",
			target: "/api/v1/owners/1/records?start=2025-03-01&end=2025-03-10&limit=5",
			setup: func(svc *mocks.MockJournalService) {
				svc.EXPECT().ListRecords(gomock.Any(), int64(1), storage.Window{Start: "2025-03-01", End: "2025-03-10"}, 5).
					Return([]storage.Record{{ID: 2}, {ID: 1}}, nil)
			},
			wantStatus: http.StatusOK,
			wantCount:  2,
		},
		{
			name:   "empty listing is an array",
			target: "/api/v1/owners/1/records",
			setup: func(svc *mocks.MockJournalService) {
				svc.EXPECT().ListRecords(gomock.Any(), int64(1), storage.Window{}, 0).Return(nil, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "non-integer limit",
			target:     "/api/v1/owners/1/records?limit=lots",
			setup:      func(*mocks.MockJournalService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "invalid window",
			target: "/api/v1/owners/1/records?start=yesterday",
			setup: func(svc *mocks.MockJournalService) {
				svc.EXPECT().ListRecords(gomock.Any(), int64(1), storage.Window{Start: "yesterday"}, 0).
					Return(nil, &service.ValidationError{Field: "start", Message: "must be a YYYY-MM-DD date"})
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockJournalService(ctrl)
			tt.setup(svc)

			w := httptest.NewRecorder()
			NewRecordsHandler(svc).List(w, newRequest(http.MethodGet, tt.target, "1", ""))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			if !strings.Contains(w.Body.String(), `"records":[`) {
				t.Errorf("records should encode as an array: %s", w.Body.String())
			}
			if resp := decodeBody[RecordListResponse](t, w); resp.Count != tt.wantCount {
				t.Errorf("count = %d, want %d", resp.Count, tt.wantCount)
			}
		})
	}
}

func TestAskHandler(t *testing.T) {
	answer := rag.FinalAnswer{
		Answer:                "今天主要在写接口文档。",
		Evidence:              []string{"[src:3] 写接口文档"},
		TrendAnalysis:         []string{},
		Insights:              []string{},
		Sources:               []string{"单日记录: 2025-03-10"},
		Confidence:            rag.ConfidenceHigh,
		UsedSemanticRetrieval: false,
		Attempts:              []rag.Attempt{},
	}

	tests := []struct {
		name       string
		body       string
		setup      func(svc *mocks.MockJournalService)
		wantStatus int
	}{
		{
			name: "answer",
			body: `{"query":"今天做了什么"}`,
			setup: func(svc *mocks.MockJournalService) {
				svc.EXPECT().Ask(gomock.Any(), int64(1), "今天做了什么").Return(answer, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "empty query",
			body: `{"query":""}`,
			setup: func(svc *mocks.MockJournalService) {
				svc.EXPECT().Ask(gomock.Any(), int64(1), "").
					Return(rag.FinalAnswer{}, &service.ValidationError{Field: "query", Message: "cannot be empty"})
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown owner",
			body: `{"query":"x"}`,
			setup: func(svc *mocks.MockJournalService) {
				svc.EXPECT().Ask(gomock.Any(), int64(1), "x").Return(rag.FinalAnswer{}, fmt.Errorf("owner 1: %w", service.ErrNotFound))
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "datastore failure",
			body: `{"query":"x"}`,
			setup: func(svc *mocks.MockJournalService) {
				svc.EXPECT().Ask(gomock.Any(), int64(1), "x").Return(rag.FinalAnswer{}, errors.New("prefilter: db closed"))
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "invalid body",
			body:       `query=x`,
			setup:      func(*mocks.MockJournalService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockJournalService(ctrl)
			tt.setup(svc)

			w := httptest.NewRecorder()
			NewAskHandler(svc).ServeHTTP(w, newRequest(http.MethodPost, "/api/v1/owners/1/ask", "1", tt.body))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var raw map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
				t.Fatal(err)
			}
			for _, key := range []string{"answer", "evidence", "trend_analysis", "insights", "sources", "confidence", "used_semantic_retrieval", "attempts"} {
				if _, ok := raw[key]; !ok {
					t.Errorf("response missing %q: %s", key, w.Body.String())
				}
			}
		})
	}
}

func TestReindexHandler(t *testing.T) {
	tests := []struct {
		name       string
		stats      *indexer.IndexStats
		err        error
		wantStatus int
	}{
		{name: "ok", stats: &indexer.IndexStats{OwnerID: 1, RecordsTotal: 3, RecordsEmbedded: 3}, wantStatus: http.StatusOK},
		{name: "all failed", stats: &indexer.IndexStats{OwnerID: 1, RecordsTotal: 3, RecordsFailed: 3}, err: service.ErrExternalService, wantStatus: http.StatusBadGateway},
		{name: "unknown owner", err: service.ErrNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockJournalService(ctrl)
			svc.EXPECT().Reindex(gomock.Any(), int64(1)).Return(tt.stats, tt.err)

			w := httptest.NewRecorder()
			NewReindexHandler(svc).ServeHTTP(w, newRequest(http.MethodPost, "/api/v1/owners/1/reindex", "1", ""))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.stats != nil {
				if got := decodeBody[indexer.IndexStats](t, w); got.RecordsTotal != 3 {
					t.Errorf("stats = %+v", got)
				}
			}
		})
	}
}

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("down") }

	tests := []struct {
		name       string
		checks     []HealthCheck
		wantStatus int
		wantState  string
	}{
		{
			name:       "healthy",
			checks:     []HealthCheck{{Name: "database", Critical: true, Check: ok}, {Name: "llm", Check: ok}},
			wantStatus: http.StatusOK,
			wantState:  "healthy",
		},
		{
			name:       "degraded",
			checks:     []HealthCheck{{Name: "database", Critical: true, Check: ok}, {Name: "llm", Check: fail}},
			wantStatus: http.StatusOK,
			wantState:  "degraded",
		},
		{
			name:       "unhealthy",
			checks:     []HealthCheck{{Name: "vector_store", Critical: true, Check: fail}, {Name: "llm", Check: fail}},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			NewHealthHandler(tt.checks...).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			resp := decodeBody[HealthResponse](t, w)
			if resp.Status != tt.wantState {
				t.Errorf("health status = %q, want %q", resp.Status, tt.wantState)
			}
			if len(resp.Checks) != len(tt.checks) {
				t.Errorf("checks = %v", resp.Checks)
			}
		})
	}
}
