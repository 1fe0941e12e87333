// Package httpapi exposes the prediction service over HTTP: a JSON scoring
// endpoint plus health, readiness, and metrics routes.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/limaflow/congestion/internal/domain"
	"github.com/limaflow/congestion/internal/observability"
	"github.com/limaflow/congestion/internal/predictor"
)

// Scorer produces a prediction for one observation.
type Scorer interface {
	Predict(ctx context.Context, obs domain.Observation) (predictor.Prediction, error)
}

// Server exposes the prediction API with health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	scorer     Scorer
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer wires the router. The scorer may be nil during partial startup;
// readiness reports unavailable until one is present.
func NewServer(addr string, scorer Scorer, metrics *observability.Metrics, logger *slog.Logger) *Server {
	s := &Server{
		scorer:  scorer,
		metrics: metrics,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/predict", s.handlePredict)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
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

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.scorer == nil {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]string{
			"status": "not ready",
			"error":  "no model loaded",
		})
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]string{"status": "ready"})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := &predictRequest{}
	if err := render.Bind(r, req); err != nil {
		s.metrics.PredictionErrors.Inc()
		renderError(w, r, http.StatusBadRequest, err)
		return
	}

	prediction, err := s.scorer.Predict(r.Context(), req.observation())
	if err != nil {
		s.metrics.PredictionErrors.Inc()
		status := http.StatusInternalServerError
		if errors.Is(err, predictor.ErrInvalidRequest) {
			status = http.StatusBadRequest
		}
		s.logger.Error("prediction failed", "error", err, "status", status)
		renderError(w, r, status, err)
		return
	}

	s.metrics.Predictions.WithLabelValues(prediction.Label).Inc()
	s.metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	s.logger.Info("prediction served",
		"label", prediction.Label,
		"confidence", prediction.Confidence,
		"hour", prediction.Context.Hour,
	)

	render.Status(r, http.StatusOK)
	render.JSON(w, r, newPredictResponse(prediction))
}

func renderError(w http.ResponseWriter, r *http.Request, status int, err error) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": err.Error()})
}
