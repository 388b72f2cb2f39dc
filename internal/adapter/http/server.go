package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/seaice-fubu-explorer/internal/domain"
	"github.com/couchcryptid/seaice-fubu-explorer/internal/pipeline"
)

// FigureService answers year and figure queries against the loaded dataset.
type FigureService interface {
	sharedobs.ReadinessChecker
	Years() (pipeline.YearChoice, error)
	Figure(ctx context.Context, year int) (domain.Figure, error)
}

// Server exposes the figure API alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	service    FigureService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the
// /api routes.
func NewServer(addr string, svc FigureService, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		service: svc,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(svc))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/years", s.handleYears)
	mux.HandleFunc("GET /api/figures/{year}", s.handleFigure)

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

func (s *Server) handleYears(w http.ResponseWriter, _ *http.Request) {
	choice, err := s.service.Years()
	if err != nil {
		s.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, choice)
}

func (s *Server) handleFigure(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("year")
	year, err := strconv.Atoi(raw)
	if err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "year must be an integer: " + raw})
		return
	}

	fig, err := s.service.Figure(r.Context(), year)
	if err != nil {
		s.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, fig.View())
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNoDataForYear):
		status = http.StatusNotFound
	case errors.Is(err, pipeline.ErrNotLoaded):
		status = http.StatusServiceUnavailable
	default:
		s.logger.Error("request failed", "error", err)
	}
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
