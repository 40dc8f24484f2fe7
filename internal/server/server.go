// Package server implements the actornet HTTP API.
//
// The API exposes the analysis pipeline over HTTP so that mapping
// frontends can run analyses without the CLI:
//
//	POST   /api/analyze          run the pipeline on an inline collection
//	GET    /api/snapshots        list saved snapshots
//	GET    /api/snapshots/{id}   fetch one snapshot with its graph
//	DELETE /api/snapshots/{id}   delete a snapshot
//	GET    /healthz              liveness probe
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/geonet-tools/actornet/pkg/pipeline"
	"github.com/geonet-tools/actornet/pkg/store"
	"github.com/geonet-tools/actornet/pkg/trust"
)

// Server wires the pipeline runner and snapshot store into an HTTP API.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// New creates a server. The store may be nil, in which case the snapshot
// endpoints return 503 and analyze requests cannot be saved.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: st, logger: logger}
}

// Handler builds the chi router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.accessLog)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/snapshots", s.handleListSnapshots)
		r.Get("/snapshots/{id}", s.handleGetSnapshot)
		r.Delete("/snapshots/{id}", s.handleDeleteSnapshot)
	})

	return r
}

// =============================================================================
// Analyze
// =============================================================================

// analyzeRequest is the POST /api/analyze body. Collection is a GeoJSON
// feature collection; Event is an optional validation session document.
type analyzeRequest struct {
	Collection json.RawMessage `json:"collection"`
	Event      json.RawMessage `json:"event,omitempty"`
	Formats    []string        `json:"formats,omitempty"`
	TopK       int             `json:"top_k,omitempty"`
	Save       bool            `json:"save,omitempty"`
}

type analyzeResponse struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	GraphHash  string            `json:"graph_hash"`
	NodeCount  int               `json:"node_count"`
	EdgeCount  int               `json:"edge_count"`
	Trust      trust.Summary     `json:"trust"`
	Cached     bool              `json:"cached"`
	Artifacts  map[string][]byte `json:"artifacts"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Collection) == 0 {
		s.writeError(w, http.StatusBadRequest, "collection is required")
		return
	}

	opts := pipeline.Options{
		InputData: req.Collection,
		EventData: req.Event,
		Formats:   req.Formats,
		TopK:      req.TopK,
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, statusForError(err), err.Error())
		return
	}

	resp := analyzeResponse{
		GraphHash: result.GraphHash,
		NodeCount: result.Stats.NodeCount,
		EdgeCount: result.Stats.EdgeCount,
		Trust:     result.Trust,
		Cached:    result.CacheInfo.NetworkHit,
		Artifacts: result.Artifacts,
	}

	if req.Save {
		if s.store == nil {
			s.writeError(w, http.StatusServiceUnavailable, "snapshot store not configured")
			return
		}
		snap := store.NewSnapshot(result.Graph, "api")
		if err := s.store.Save(r.Context(), snap); err != nil {
			s.writeError(w, http.StatusInternalServerError, "save snapshot: "+err.Error())
			return
		}
		resp.SnapshotID = snap.ID
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Snapshots
// =============================================================================

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "snapshot store not configured")
		return
	}
	snaps, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if snaps == nil {
		snaps = []*store.Snapshot{}
	}
	s.writeJSON(w, http.StatusOK, snaps)
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "snapshot store not configured")
		return
	}
	snap, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "snapshot not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "snapshot store not configured")
		return
	}
	err := s.store.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "snapshot not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Health
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Middleware
// =============================================================================

const requestIDHeader = "X-Request-Id"

// requestID assigns each request a uuid, echoed in the response headers
// so API clients can reference a specific run in bug reports.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", ww.Header().Get(requestIDHeader))
	})
}

// =============================================================================
// Responses
// =============================================================================

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// statusForError maps pipeline failures to an HTTP status. Only faults
// in the caller's input (decode errors, bad options) are client errors;
// render or cache failures are the server's problem.
func statusForError(err error) int {
	if errors.Is(err, pipeline.ErrBadInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
