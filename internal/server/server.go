// Package server implements the lineage HTTP API.
//
// Routes:
//
//	GET  /healthz                 liveness and version
//	POST /v1/layouts              compute and store a layout (dataset JSON body)
//	GET  /v1/layouts              list stored layouts, newest first
//	GET  /v1/layouts/{id}         stored layout record
//	GET  /v1/layouts/{id}/dot     Graphviz DOT of a stored layout
//	GET  /v1/layouts/{id}/svg     SVG of a stored layout
//	GET  /metrics                 Prometheus metrics
//
// Errors are JSON objects {"code": ..., "message": ..., "request_id": ...}
// with the status derived from the [errors.Code].
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/pipeline"
	"github.com/matzehuels/lineage/pkg/store"
)

// DefaultMaxBodyBytes bounds uploaded datasets.
const DefaultMaxBodyBytes = 16 << 20

// Options configures a Server. Runner and Store are required.
type Options struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	// Gatherer backs /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	MaxBodyBytes int64
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server serves the lineage API.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	gatherer prometheus.Gatherer

	maxBody      int64
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// New creates a server.
func New(opts Options) *Server {
	s := &Server{
		runner:       opts.Runner,
		store:        opts.Store,
		logger:       opts.Logger,
		gatherer:     opts.Gatherer,
		maxBody:      opts.MaxBodyBytes,
		readTimeout:  opts.ReadTimeout,
		writeTimeout: opts.WriteTimeout,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.logRequests)
	r.Use(chimiddleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{
			Code:      "METHOD_NOT_ALLOWED",
			Message:   r.Method + " not allowed on " + r.URL.Path,
			RequestID: requestIDFrom(r.Context()),
		})
	})

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1/layouts", func(r chi.Router) {
		r.Post("/", s.createLayout)
		r.Get("/", s.listLayouts)
		r.Get("/{id}", s.getLayout)
		r.Get("/{id}/dot", s.renderLayout(pipeline.FormatDOT, "text/vnd.graphviz; charset=utf-8"))
		r.Get("/{id}/svg", s.renderLayout(pipeline.FormatSVG, "image/svg+xml"))
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully with a ten second grace period.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
