// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	POST /v1/layout   optimize a snapshot, returns the optimized snapshot
//	POST /v1/export   render a snapshot as json, dot or svg (?format=)
//	GET  /healthz     liveness probe
//	GET  /metrics     Prometheus metrics, when a gatherer is configured
//
// Errors are JSON objects carrying a [errors.Code]:
//
//	{"error": {"code": "INVALID_GRAPH", "message": "..."}, "request_id": "..."}
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/mindmap/pkg/config"
	"github.com/matzehuels/mindmap/pkg/pipeline"
)

const shutdownTimeout = 10 * time.Second

// Server serves layout requests with a shared [pipeline.Runner].
type Server struct {
	runner   *pipeline.Runner
	cfg      config.Server
	defaults pipeline.Options
	gatherer prometheus.Gatherer
	logger   *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics serves the metrics of g on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithDefaults sets the options used for fields a request leaves out.
func WithDefaults(opts pipeline.Options) Option {
	return func(s *Server) { s.defaults = opts }
}

// New creates a server. The runner's logger is used for request logs.
func New(runner *pipeline.Runner, cfg config.Server, opts ...Option) *Server {
	s := &Server{
		runner:   runner,
		cfg:      cfg,
		defaults: pipeline.DefaultOptions(),
		logger:   runner.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.limitBody)
		r.Post("/layout", s.layout)
		r.Post("/export", s.export)
	})
	return r
}

// ListenAndServe serves on the configured address until ctx is canceled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
