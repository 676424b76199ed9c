package knowledge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestClient_Search(t *testing.T) {
	var gotReq map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(map[string]any{
			"matches": []map[string]any{
				{"id": "kb-1", "title": "Polarized training", "content": "Most volume easy...", "similarity": 0.91},
				{"id": "kb-2", "title": "Taper length", "content": "Two to three weeks...", "similarity": 0.84},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	matches, err := c.Search(context.Background(), "how long should a taper be", 2)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].ID != "kb-1" || matches[0].Similarity != 0.91 {
		t.Errorf("unexpected first match: %+v", matches[0])
	}

	if gotReq["query"] != "how long should a taper be" {
		t.Errorf("query not forwarded: %v", gotReq)
	}
	if gotReq["match_count"] != float64(2) {
		t.Errorf("match_count not forwarded: %v", gotReq)
	}
}

func TestClient_Search_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	if _, err := c.Search(context.Background(), "anything", 3); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestClient_Search_ServiceDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	if _, err := c.Search(context.Background(), "anything", 3); err == nil {
		t.Fatal("expected error when service is unreachable")
	}
}
