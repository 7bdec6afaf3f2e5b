// Package http exposes the projection model, alerting, and report jobs over a
// JSON API alongside the health and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/couchcryptid/climate-projection-service/internal/alerting"
	"github.com/couchcryptid/climate-projection-service/internal/domain"
	"github.com/couchcryptid/climate-projection-service/internal/observability"
	"github.com/couchcryptid/climate-projection-service/internal/report"
)

// Deps are the services behind the API. Geocoder may be nil.
type Deps struct {
	Ready    sharedobs.ReadinessChecker
	Alerts   *alerting.Service
	Reports  *report.Service
	Geocoder domain.Geocoder
	Metrics  *observability.Metrics
}

// Server exposes the /api/v1 routes plus /healthz, /readyz, and /metrics.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger
}

// NewServer creates the HTTP server and registers every route.
func NewServer(addr string, deps Deps, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      otelhttp.NewHandler(mux, "climate-api"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		deps:   deps,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(deps.Ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/regions", s.handleRegions)
	mux.HandleFunc("GET /api/v1/projections", s.handleProjection)
	mux.HandleFunc("GET /api/v1/series", s.handleSeries)
	mux.HandleFunc("GET /api/v1/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/v1/globe", s.handleGlobe)
	mux.HandleFunc("GET /api/v1/scenarios", s.handleScenarios)

	mux.HandleFunc("GET /api/v1/alerts", s.handleAlerts)
	mux.HandleFunc("POST /api/v1/alerts/{id}/dismiss", s.handleDismissAlert)
	mux.HandleFunc("POST /api/v1/alerts/{id}/snooze", s.handleSnoozeAlert)
	mux.HandleFunc("POST /api/v1/alerts/{id}/resolve", s.handleResolveAlert)
	mux.HandleFunc("GET /api/v1/alert-rules", s.handleAlertRules)
	mux.HandleFunc("POST /api/v1/alert-rules/{id}/toggle", s.handleToggleRule)

	mux.HandleFunc("POST /api/v1/reports/export", s.handleExport)
	mux.HandleFunc("POST /api/v1/reports/share", s.handleShare)
	mux.HandleFunc("GET /api/v1/reports/files/{name}", s.handleReportFile)
	mux.HandleFunc("POST /api/v1/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/v1/jobs/{id}", s.handleJob)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError records the rejection reason and writes a JSON error body.
func (s *Server) writeError(w http.ResponseWriter, status int, reason string, err error) {
	s.deps.Metrics.RequestErrors.WithLabelValues(reason).Inc()
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "reason", reason, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client went away
}
