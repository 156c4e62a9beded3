package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func embeddingServer(t *testing.T, size int, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("expected /v1/embeddings, got %s", r.URL.Path)
		}
		if calls != nil {
			calls.Add(1)
		}
		var req EmbeddingsRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		resp := EmbeddingsResponse{}
		for range req.Input {
			vec := make([]float64, size)
			for i := range vec {
				vec[i] = float64(i) + 0.5
			}
			resp.Data = append(resp.Data, EmbeddingData{Embedding: vec})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestEmbeddingsClient_EmbedTexts(t *testing.T) {
	tests := []struct {
		name         string
		texts        []string
		expectedSize int
		serverResp   func(w http.ResponseWriter, r *http.Request)
		wantErr      bool
		wantCount    int
	}{
		{
			name:         "successful embedding",
			texts:        []string{"你好", "World"},
			expectedSize: 4,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(EmbeddingsResponse{Data: []EmbeddingData{
					{Embedding: make([]float64, 4)},
					{Embedding: make([]float64, 4)},
				}})
			},
			wantCount: 2,
		},
		{
			name:         "empty input",
			texts:        []string{},
			expectedSize: 4,
			serverResp:   func(w http.ResponseWriter, r *http.Request) {},
			wantErr:      true,
		},
		{
			name:         "wrong embedding count",
			texts:        []string{"a", "b"},
			expectedSize: 4,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(EmbeddingsResponse{Data: []EmbeddingData{{Embedding: make([]float64, 4)}}})
			},
			wantErr: true,
		},
		{
			name:         "wrong vector size",
			texts:        []string{"a"},
			expectedSize: 4,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(EmbeddingsResponse{Data: []EmbeddingData{{Embedding: make([]float64, 3)}}})
			},
			wantErr: true,
		},
		{
			name:         "server error",
			texts:        []string{"a"},
			expectedSize: 4,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			client := NewEmbeddingsClient(server.URL, "test-key", "test-model", tt.expectedSize)
			embeddings, err := client.EmbedTexts(context.Background(), tt.texts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("EmbedTexts() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(embeddings) != tt.wantCount {
				t.Errorf("EmbedTexts() returned %d embeddings, want %d", len(embeddings), tt.wantCount)
			}
		})
	}
}

func TestEmbeddingsClient_Embed(t *testing.T) {
	var calls atomic.Int32
	server := embeddingServer(t, 3, &calls)
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "k", "m", 3)

	vec, err := client.Embed(context.Background(), "今天跑步了")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vec) != 3 || vec[0] != float32(0.5) || vec[2] != float32(2.5) {
		t.Errorf("Embed() = %v, want [0.5 1.5 2.5]", vec)
	}

	blank, err := client.Embed(context.Background(), "   ")
	if err != nil || blank != nil {
		t.Errorf("Embed(blank) = %v, %v; want nil, nil", blank, err)
	}
	if calls.Load() != 1 {
		t.Errorf("server called %d times, want 1", calls.Load())
	}
}

func TestEmbeddingsClient_EmbedTexts_Batches(t *testing.T) {
	var calls atomic.Int32
	server := embeddingServer(t, 2, &calls)
	defer server.Close()

	texts := make([]string, maxEmbedBatch+3)
	for i := range texts {
		texts[i] = "记录"
	}

	vecs, err := NewEmbeddingsClient(server.URL, "k", "m", 2).EmbedTexts(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedTexts() error = %v", err)
	}
	if len(vecs) != len(texts) {
		t.Errorf("EmbedTexts() returned %d vectors, want %d", len(vecs), len(texts))
	}
	if calls.Load() != 2 {
		t.Errorf("server called %d times, want 2", calls.Load())
	}
}

func TestEmbeddingsClient_EmbedTexts_OrdersByIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(EmbeddingsResponse{Data: []EmbeddingData{
			{Index: 1, Embedding: []float64{2, 2}},
			{Index: 0, Embedding: []float64{1, 1}},
		}})
	}))
	defer server.Close()

	vecs, err := NewEmbeddingsClient(server.URL, "k", "m", 2).EmbedTexts(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("EmbedTexts() error = %v", err)
	}
	if vecs[0][0] != 1 || vecs[1][0] != 2 {
		t.Errorf("EmbedTexts() = %v, want input order", vecs)
	}
}

func TestStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer server.Close()

	_, err := NewEmbeddingsClient(server.URL, "k", "m", 2).EmbedTexts(context.Background(), []string{"a"})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("EmbedTexts() error = %v, want StatusError", err)
	}
	if se.Code != http.StatusTooManyRequests || se.Body != "slow down" || !se.Temporary() {
		t.Errorf("StatusError = %+v, temporary %v", se, se.Temporary())
	}
	if (&StatusError{Code: http.StatusBadRequest}).Temporary() {
		t.Error("400 should not be temporary")
	}
}
