// Package httpapi serves the stored diagram over HTTP.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"schemer/internal/ports"
)

// DefaultMaxBodyBytes bounds POSTed diagrams.
const DefaultMaxBodyBytes = 1 << 20

// Server provides the scheme API and the static front end
type Server struct {
	addr   string
	server *http.Server
	logger *slog.Logger
}

// Config holds server settings
type Config struct {
	Addr         string
	StaticDir    string
	MaxBodyBytes int64
}

// NewServer creates a new HTTP server for store
func NewServer(cfg Config, store ports.DiagramStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr: cfg.Addr,
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewRouter(cfg.StaticDir, store, cfg.MaxBodyBytes, logger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Handler returns the server's root handler
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Run listens until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting", "addr", s.addr)
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.logger.Info("http server stopped")
		return nil
	}
}

// NewRouter wires the API routes and the static file server
func NewRouter(staticDir string, store ports.DiagramStore, maxBodyBytes int64, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
	mux.Handle("/api/scheme/current", NewSchemeHandler(store, maxBodyBytes, logger))
	mux.Handle("/api/scheme/render.png", NewRenderHandler(store, logger))

	return logRequests(logger, mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests logs one line per request
func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
