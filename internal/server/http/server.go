// Package httpserver provides the interactive dashboard HTTP server. It
// serves a filterable JSON API plus an embedded single-page dashboard over an
// immutable snapshot of the cleaned dataset.
package httpserver

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/helixir/cord19-explorer/internal/dataset"
	"github.com/helixir/cord19-explorer/internal/observability"
)

//go:embed index.html
var indexHTML []byte

// Server is the dashboard HTTP server. It owns an immutable cleaned
// snapshot; every request filters and aggregates that snapshot
// synchronously, so no locking is needed.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	snapshot   *dataset.RecordSet
	logger     zerolog.Logger
	metrics    *observability.Metrics
	limiter    *RateLimiter

	metricsPath string
}

// Config holds HTTP server configuration.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	MetricsEnabled bool
	MetricsPath    string

	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int
}

// NewServer creates a new dashboard server over the given cleaned snapshot.
// The snapshot is treated as immutable for the lifetime of the server.
func NewServer(cfg Config, snapshot *dataset.RecordSet, logger zerolog.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		snapshot:    snapshot,
		logger:      logger.With().Str("component", "http-server").Logger(),
		metrics:     metrics,
		metricsPath: cfg.MetricsPath,
	}
	if cfg.RateLimitEnabled {
		s.limiter = NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if s.metrics != nil {
		s.metrics.SnapshotRecords.Set(float64(snapshot.Len()))
	}

	s.router = s.buildRouter(cfg)

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// buildRouter creates the chi router with all middleware and routes.
func (s *Server) buildRouter(cfg Config) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(correlationIDMiddleware)
	r.Use(s.requestLogMiddleware)

	// Health endpoints
	r.Get("/healthz", s.healthHandler)
	r.Get("/readyz", s.readinessHandler)

	if cfg.MetricsEnabled {
		r.Handle(cfg.MetricsPath, promhttp.Handler())
	}

	// Dashboard page
	r.Get("/", s.indexHandler)

	// JSON API
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jsonContentTypeMiddleware)
		r.Use(s.metricsMiddleware)
		if s.limiter != nil {
			r.Use(s.throttleMiddleware)
		}

		r.Get("/summary", s.summaryHandler)
		r.Get("/papers", s.papersHandler)
		r.Get("/filters", s.filterOptionsHandler)

		r.Route("/charts", func(r chi.Router) {
			r.Get("/publications-by-year", s.publicationsByYearHandler)
			r.Get("/top-journals", s.topJournalsHandler)
			r.Get("/sources", s.sourcesHandler)
			r.Get("/monthly-trend", s.monthlyTrendHandler)
			r.Get("/title-words", s.titleWordsHandler)
			r.Get("/abstract-lengths", s.abstractLengthsHandler)
		})
	})

	return r
}

// Router exposes the underlying handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().
		Str("address", s.httpServer.Addr).
		Int("records", s.snapshot.Len()).
		Msg("dashboard server starting")
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// indexHandler serves the embedded dashboard page.
func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexHTML)
}

// healthHandler returns basic liveness status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readinessHandler reports whether the cleaned snapshot is loaded.
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	if s.snapshot.Len() == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"error":  "cleaned dataset is empty",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ready",
		"records": s.snapshot.Len(),
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	// Headers are already sent, encode errors cannot be reported.
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
