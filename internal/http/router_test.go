package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"journal-ai/internal/handlers"
	"journal-ai/internal/rag"
	"journal-ai/internal/service/mocks"
	"journal-ai/internal/storage"

	"go.uber.org/mock/gomock"
)

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockJournalService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockJournalService(ctrl)
	router := NewRouter(&Deps{
		Service: svc,
		HealthChecks: []handlers.HealthCheck{
			{Name: "database", Critical: true, Check: func(context.Context) error { return nil }},
		},
		RequestTimeout: time.Second,
		AllowedOrigins: []string{"http://localhost:5173"},
	})
	return router, svc
}

func TestRouter_Routes(t *testing.T) {
	router, svc := newTestRouter(t)
	svc.EXPECT().CreateOwner(gomock.Any(), "alice").Return(storage.Owner{ID: 1, Name: "alice"}, nil)
	svc.EXPECT().ListRecords(gomock.Any(), int64(1), storage.Window{}, 0).Return(nil, nil)
	svc.EXPECT().AddRecord(gomock.Any(), int64(1), gomock.Any()).Return(&storage.Record{ID: 2}, nil)
	svc.EXPECT().Ask(gomock.Any(), int64(1), "今天做了什么").Return(rag.FinalAnswer{Answer: "写代码"}, nil)
	svc.EXPECT().Reindex(gomock.Any(), int64(1)).Return(nil, nil)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{name: "health", method: http.MethodGet, path: "/api/health", wantStatus: http.StatusOK},
		{name: "create owner", method: http.MethodPost, path: "/api/v1/owners", body: `{"name":"alice"}`, wantStatus: http.StatusCreated},
		{name: "list records", method: http.MethodGet, path: "/api/v1/owners/1/records", wantStatus: http.StatusOK},
		{name: "add record", method: http.MethodPost, path: "/api/v1/owners/1/records", body: `{"record_date":"2025-03-10","content":"x"}`, wantStatus: http.StatusCreated},
		{name: "ask", method: http.MethodPost, path: "/api/v1/owners/1/ask", body: `{"query":"今天做了什么"}`, wantStatus: http.StatusOK},
		{name: "reindex", method: http.MethodPost, path: "/api/v1/owners/1/reindex", wantStatus: http.StatusOK},
		{name: "bad owner id", method: http.MethodPost, path: "/api/v1/owners/abc/ask", body: `{"query":"x"}`, wantStatus: http.StatusBadRequest},
		{name: "wrong method", method: http.MethodGet, path: "/api/v1/owners/1/ask", wantStatus: http.StatusMethodNotAllowed},
		{name: "unknown route", method: http.MethodGet, path: "/api/v1/nope", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("%s %s status = %v, want %v (body %s)", tt.method, tt.path, w.Code, tt.wantStatus, w.Body.String())
			}
			if w.Header().Get(RequestIDHeader) == "" {
				t.Errorf("%s %s missing %s header", tt.method, tt.path, RequestIDHeader)
			}
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name       string
		origin     string
		wantOrigin string
	}{
		{name: "allowed origin", origin: "http://localhost:5173", wantOrigin: "http://localhost:5173"},
		{name: "other origin", origin: "http://evil.test", wantOrigin: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/v1/owners", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
		})
	}
}
