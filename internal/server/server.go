// Package server exposes the render pipeline as a stateless HTTP API.
//
// The API has two endpoints:
//
//	GET  /healthz     - liveness probe
//	POST /api/render  - run the extract → layout → render pipeline
//
// Requests carry the full graph document and name map, so the server holds
// no per-client state; horizontal scaling only needs a shared cache backend.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	apierrors "github.com/egonet/egonet/pkg/errors"
	"github.com/egonet/egonet/pkg/graph"
	"github.com/egonet/egonet/pkg/names"
	"github.com/egonet/egonet/pkg/neighborhood"
	"github.com/egonet/egonet/pkg/pipeline"
)

// shutdownTimeout bounds graceful shutdown once the context is cancelled.
const shutdownTimeout = 10 * time.Second

// maxRequestBody caps render request payloads (graphs plus name maps).
const maxRequestBody = 32 << 20 // 32 MiB

// Server serves the render pipeline over HTTP.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server around the given runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Handler builds the HTTP routing table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/render", s.handleRender)

	return r
}

// ListenAndServe runs the server until the context is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// =============================================================================
// Middleware
// =============================================================================

// ctxKey is the type for context keys used in this package.
type ctxKey int

// requestIDKey is the context key for the per-request UUID.
const requestIDKey ctxKey = 0

// requestID assigns each request a UUID, echoed in the X-Request-ID header
// and attached to log lines.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// logRequests logs method, path, status, and duration for every request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"id", requestIDFrom(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

// requestIDFrom retrieves the request UUID from ctx, if present.
func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RenderRequest is the payload for POST /api/render.
type RenderRequest struct {
	Graph   graph.Document    `json:"graph"`
	Names   map[string]string `json:"names,omitempty"`
	Options pipeline.Options  `json:"options"`
}

// RenderResponse is the success payload for POST /api/render.
// Artifact bytes are base64-encoded by Go's JSON encoding.
type RenderResponse struct {
	GraphHash    string            `json:"graph_hash"`
	SubgraphHash string            `json:"subgraph_hash"`
	Visited      int               `json:"visited"`
	Nodes        int               `json:"nodes"`
	Edges        int               `json:"edges"`
	Cached       bool              `json:"cached"`
	Artifacts    map[string][]byte `json:"artifacts"`
}

// ErrorResponse is the failure payload for all endpoints.
type ErrorResponse struct {
	Code    apierrors.Code `json:"code"`
	Message string         `json:"message"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest,
			apierrors.New(apierrors.ErrCodeInvalidInput, "invalid request body: %v", err))
		return
	}

	g, err := graph.ToGraph(req.Graph)
	if err != nil {
		writeError(w, http.StatusBadRequest,
			apierrors.New(apierrors.ErrCodeInvalidGraph, "invalid graph: %v", err))
		return
	}

	opts := req.Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, http.StatusBadRequest,
			apierrors.New(apierrors.ErrCodeInvalidInput, "invalid options: %v", err))
		return
	}

	result, err := s.runner.Execute(r.Context(), g, names.Map(req.Names), opts)
	switch {
	case errors.Is(err, neighborhood.ErrStartNodeNotFound):
		writeError(w, http.StatusNotFound,
			apierrors.New(apierrors.ErrCodeNodeNotFound, "node %q not found in the graph", opts.Start))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError,
			apierrors.New(apierrors.ErrCodeInternal, "%s", apierrors.UserMessage(err)))
		return
	}

	writeJSON(w, http.StatusOK, RenderResponse{
		GraphHash:    result.GraphHash,
		SubgraphHash: result.SubgraphHash,
		Visited:      result.Stats.VisitedCount,
		Nodes:        result.Stats.NodeCount,
		Edges:        result.Stats.EdgeCount,
		Cached:       result.CacheInfo.RenderHit,
		Artifacts:    result.Artifacts,
	})
}

// =============================================================================
// Response Helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err *apierrors.Error) {
	writeJSON(w, status, ErrorResponse{Code: err.Code, Message: err.Message})
}
