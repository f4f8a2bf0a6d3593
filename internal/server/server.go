// Package server exposes tree comparisons over HTTP.
//
// Routes:
//
//	POST /v1/embedding     maximum common embedding of two trees
//	POST /v1/isomorphism   maximum common isomorphism of two trees
//	POST /v1/paths         common path embedding of two path lists
//	GET  /healthz          liveness and build info
//	GET  /metrics          Prometheus metrics
//
// Every request gets an ID (echoed in X-Request-ID) and a structured log
// line. Errors carry the machine-readable code from pkg/errors.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/treematch/pkg/observability"
	"github.com/matzehuels/treematch/pkg/pipeline"
)

// Defaults for Config.
const (
	DefaultAddr         = ":8080"
	DefaultMaxNodes     = 5000
	DefaultMaxBodyBytes = 8 << 20
)

// Config holds server settings.
type Config struct {
	Addr         string
	MaxNodes     int   // per tree; 0 uses DefaultMaxNodes, negative disables
	MaxBodyBytes int64 // request body limit
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxNodes == 0 {
		c.MaxNodes = DefaultMaxNodes
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
}

// Server serves comparisons through a pipeline runner.
type Server struct {
	cfg      Config
	runner   *pipeline.Runner
	logger   *log.Logger
	metrics  *Metrics
	gatherer prometheus.Gatherer
	router   chi.Router
}

// New creates a server. Metrics are registered with a fresh registry, which
// also serves /metrics, and installed as the global observability hooks.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	cfg.setDefaults()
	if logger == nil {
		logger = runner.Logger
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	s := &Server{
		cfg:      cfg,
		runner:   runner,
		logger:   logger.WithPrefix("server"),
		metrics:  NewMetrics(reg),
		gatherer: reg,
	}
	observability.SetPipelineHooks(s.metrics)
	observability.SetCacheHooks(s.metrics)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/embedding", s.handleCompare(pipeline.ModeEmbedding))
		r.Post("/isomorphism", s.handleCompare(pipeline.ModeIsomorphism))
		r.Post("/paths", s.handlePaths)
	})
	r.NotFound(s.handleNotFound)
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
