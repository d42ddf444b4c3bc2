// Package api - Thin, deterministic HTTP boundary
// The API is ONLY responsible for: input ingestion, engine invocation, output
// serialization. It NEVER performs pricing logic, and it always answers
// pricing requests with HTTP 200 plus a diagnostics body; absence of a price
// is communicated through can_calculate=false, never through an error status.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"printshop-pricing/core/engine"
	"printshop-pricing/db"
	"printshop-pricing/internal/errors"
	"printshop-pricing/internal/logging"
)

// Server is the API server
type Server struct {
	engine  *engine.Engine
	store   *db.Store
	router  chi.Router
	version string
}

// NewServer creates a new API server (without a store; store-backed routes
// answer 503)
func NewServer(version string) *Server {
	return NewServerWithStore(version, nil)
}

// NewServerWithStore creates a new API server backed by the given store
func NewServerWithStore(version string, store *db.Store) *Server {
	s := &Server{
		engine:  engine.New(),
		store:   store,
		router:  chi.NewRouter(),
		version: version,
	}
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.router.Use(requestID)
	s.router.Use(requestLogger)

	s.router.Post("/preview", s.handlePreviewInline)
	s.router.Get("/shops/{shopID}/drafts/{draftID}/preview", s.handleDraftPreview)
	s.router.Get("/shops/{shopID}/products/{productID}/price-hint", s.handlePriceHint)

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/version", s.handleVersion)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "printshop-pricing",
		"api_version": "v1",
	}, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	}, status)
}

// writeEngineError maps engine errors onto HTTP statuses. Only boundary
// failures reach here; configuration incompleteness is a 200 with
// diagnostics.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.IsType(err, errors.TypeNotFound):
		s.writeError(w, string(errors.TypeNotFound), err.Error(), http.StatusNotFound)
	case errors.IsType(err, errors.TypeInput):
		s.writeError(w, string(errors.TypeInput), err.Error(), http.StatusBadRequest)
	default:
		logging.Logger.Error("engine failure", zap.Error(err))
		s.writeError(w, "ENGINE_ERROR", err.Error(), http.StatusInternalServerError)
	}
}

// requestID tags each request with a fresh id for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		r.Header.Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Logger.Info("request",
			zap.String("request_id", r.Header.Get("X-Request-Id")),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
