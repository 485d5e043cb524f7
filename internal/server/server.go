// Package server exposes identifier parsing and grouping over HTTP/JSON.
//
// Routes:
//
//	GET  /health                 build info
//	POST /v1/identifiers/parse   {"text": "type::name"}
//	POST /v1/pairs/parse         {"text": "type::name$type::name"}
//	POST /v1/pairs/other         {"pair": "...", "id": "..."}
//	POST /v1/groups              {"pairs": [...], "sorted": false}
//
// Errors are returned as {"code": "...", "error": "..."} with status 400 for
// malformed input and 422 when an identifier is not an endpoint of a pair.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/nodegroup/pkg/config"
	"github.com/matzehuels/nodegroup/pkg/observability"
	"github.com/matzehuels/nodegroup/pkg/pipeline"
)

// maxBodySize caps request bodies.
const maxBodySize = 10 << 20

// shutdownTimeout bounds graceful shutdown after the context is canceled.
const shutdownTimeout = 10 * time.Second

// Config holds the configuration for the HTTP server.
type Config struct {
	Addr   string           // listen address (default: config.DefaultAddr)
	Runner *pipeline.Runner // grouping pipeline; nil disables caching
	Logger *log.Logger      // request log; nil uses log.Default()
}

// Server is the nodegroup HTTP adapter.
type Server struct {
	router chi.Router
	runner *pipeline.Runner
	logger *log.Logger
	addr   string
}

// New creates a Server with all routes configured.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = config.DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	s := &Server{
		runner: cfg.Runner,
		logger: cfg.Logger,
		addr:   cfg.Addr,
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/identifiers/parse", s.handleParseIdentifier)
		r.Post("/pairs/parse", s.handleParsePair)
		r.Post("/pairs/other", s.handlePairOther)
		r.Post("/groups", s.handleGroups)
	})

	return r
}

// ServeHTTP implements the http.Handler interface, delegating to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return ctx.Err()
}

// logRequests logs each request and reports it to the HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, status, d)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d,
			"id", middleware.GetReqID(r.Context()))
	})
}
