// Package api exposes the HTTP interface for the analyzer service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/blogrank/blogrank/internal/blog"
	"github.com/blogrank/blogrank/internal/metrics"
)

// BlogAnalyzer runs one full analysis per call.
type BlogAnalyzer interface {
	Analyze(ctx context.Context, blogID string) (*blog.Report, error)
}

// ReportSink persists a report artifact to disk.
type ReportSink interface {
	Save(ctx context.Context, r *blog.Report) (string, error)
}

// ReportStore persists a report row for history queries.
type ReportStore interface {
	StoreReport(ctx context.Context, r *blog.Report) error
}

// Server wires HTTP handlers to the analyzer and optional persistence.
type Server struct {
	router   chi.Router
	analyzer BlogAnalyzer
	sink     ReportSink
	store    ReportStore
	logger   *zap.Logger
}

// NewServer constructs a Server with middleware and routes. sink and store
// may be nil; persistence is best-effort either way.
func NewServer(analyzer BlogAnalyzer, sink ReportSink, store ReportStore, logger *zap.Logger) *Server {
	s := &Server{
		analyzer: analyzer,
		sink:     sink,
		store:    store,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(timeoutMiddleware(3 * time.Minute))

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Handle("/metrics", metrics.Handler())
	r.Post("/api/analyze", s.analyze)

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type analyzeRequest struct {
	BlogID string `json:"blog_id"`
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	blogID := strings.TrimSpace(req.BlogID)
	if blogID == "" {
		writeError(w, http.StatusBadRequest, "blog_id is required")
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), blogID)
	if err != nil {
		if errors.Is(err, blog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "blog not found or has no posts")
			return
		}
		s.logger.Error("analysis failed", zap.String("blog_id", blogID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	s.persist(r.Context(), result)
	writeJSON(w, http.StatusOK, result)
}

// persist saves the report through the optional sink and store. Failures are
// logged, never surfaced to the client.
func (s *Server) persist(ctx context.Context, r *blog.Report) {
	if s.sink != nil {
		if _, err := s.sink.Save(ctx, r); err != nil {
			s.logger.Warn("report sink failed", zap.String("blog_id", r.BlogID), zap.Error(err))
		}
	}
	if s.store != nil {
		if err := s.store.StoreReport(ctx, r); err != nil {
			s.logger.Warn("report store failed", zap.String("blog_id", r.BlogID), zap.Error(err))
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
