package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/geonet-tools/actornet/pkg/pipeline"
	"github.com/geonet-tools/actornet/pkg/store"
)

const testCollection = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {
        "snaNodeId": "coop_a",
        "name": "Cooperative Alpha",
        "sector": "Agriculture",
        "partnershipIds": ["assoc_b"]
      }
    },
    {
      "type": "Feature",
      "properties": {
        "snaNodeId": "assoc_b",
        "name": "Beta Association",
        "sector": "Water"
      }
    }
  ]
}`

func testServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	return New(runner, st, logger)
}

func postAnalyze(t *testing.T, h http.Handler, body analyzeRequest) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h := testServer(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status %d", rec.Code)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("response should carry a request id")
	}
}

func TestAnalyze(t *testing.T) {
	h := testServer(t).Handler()

	rec := postAnalyze(t, h, analyzeRequest{
		Collection: json.RawMessage(testCollection),
		Formats:    []string{"csv", "report"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze status %d: %s", rec.Code, rec.Body)
	}

	var resp analyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.NodeCount != 2 || resp.EdgeCount != 1 {
		t.Errorf("unexpected counts: %d nodes, %d edges", resp.NodeCount, resp.EdgeCount)
	}
	if resp.GraphHash == "" {
		t.Error("graph hash missing")
	}
	if len(resp.Artifacts["report"]) == 0 {
		t.Error("report artifact missing")
	}
	if resp.SnapshotID != "" {
		t.Error("snapshot should not be saved unless requested")
	}
}

func TestAnalyzeBadRequests(t *testing.T) {
	h := testServer(t).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body should 400, got %d", rec.Code)
	}

	rec = postAnalyze(t, h, analyzeRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing collection should 400, got %d", rec.Code)
	}

	rec = postAnalyze(t, h, analyzeRequest{
		Collection: json.RawMessage(testCollection),
		Formats:    []string{"bogus"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown format should 400, got %d", rec.Code)
	}

	rec = postAnalyze(t, h, analyzeRequest{
		Collection: json.RawMessage(`{"type": "FeatureCollection", "features": [{"id": {}}]}`),
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed collection should 400, got %d", rec.Code)
	}
}

func TestStatusForError(t *testing.T) {
	if got := statusForError(pipeline.ErrBadInput); got != http.StatusBadRequest {
		t.Errorf("input fault should map to 400, got %d", got)
	}
	if got := statusForError(fmt.Errorf("export: %w", errors.New("render failed"))); got != http.StatusInternalServerError {
		t.Errorf("render fault should map to 500, got %d", got)
	}
}

func TestSnapshotLifecycle(t *testing.T) {
	h := testServer(t).Handler()

	rec := postAnalyze(t, h, analyzeRequest{
		Collection: json.RawMessage(testCollection),
		Formats:    []string{"report"},
		Save:       true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze status %d: %s", rec.Code, rec.Body)
	}
	var resp analyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.SnapshotID == "" {
		t.Fatal("expected snapshot id")
	}

	// List includes it.
	req := httptest.NewRequest(http.MethodGet, "/api/snapshots", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status %d", rec.Code)
	}
	var snaps []*store.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snaps); err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 1 || snaps[0].ID != resp.SnapshotID {
		t.Errorf("unexpected snapshot list: %+v", snaps)
	}

	// Fetch carries the graph.
	req = httptest.NewRequest(http.MethodGet, "/api/snapshots/"+resp.SnapshotID, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status %d", rec.Code)
	}
	var snap store.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatal(err)
	}
	if len(snap.Graph.Nodes) != 2 {
		t.Errorf("snapshot graph missing nodes: %+v", snap.Graph)
	}

	// Delete, then 404.
	req = httptest.NewRequest(http.MethodDelete, "/api/snapshots/"+resp.SnapshotID, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/snapshots/"+resp.SnapshotID, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("deleted snapshot should 404, got %d", rec.Code)
	}
}

func TestSnapshotNotFound(t *testing.T) {
	h := testServer(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/snapshots/unknown", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown snapshot should 404, got %d", rec.Code)
	}
}
