package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/bgagents/pkg/heuristic"
)

// Config holds the server configuration.
type Config struct {
	Addr            string
	FastWorkers     int    // concurrent evaluate/move requests, 0 means one per CPU
	SlowWorkers     int    // concurrent match requests
	MaxGames        int    // games allowed in one match request
	CacheSize       uint32 // evaluation cache entries, 0 disables the cache
	ShutdownTimeout time.Duration
	Version         string
}

// Server is the HTTP API server.
type Server struct {
	config   Config
	handlers *Handlers
	pool     *WorkerPool
	cache    *heuristic.Cache
}

func NewServer(cfg Config) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{
		config: cfg,
		pool:   NewWorkerPool(cfg.FastWorkers, cfg.SlowWorkers),
	}
	if cfg.CacheSize > 0 {
		s.cache = heuristic.NewCache(cfg.CacheSize)
	}
	s.handlers = NewHandlers(Options{
		Version:  cfg.Version,
		Pool:     s.pool,
		Cache:    s.cache,
		MaxGames: cfg.MaxGames,
	})
	return s
}

// Pool returns the worker pool for monitoring.
func (s *Server) Pool() *WorkerPool {
	return s.pool
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// Handler returns the routed API with its middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handlers.Health)
	mux.HandleFunc("POST /api/evaluate", s.handlers.Evaluate)
	mux.HandleFunc("POST /api/move", s.handlers.Move)
	mux.HandleFunc("POST /api/match", s.handlers.Match)
	mux.HandleFunc("GET /api/match/stream", s.handlers.MatchStream)
	mux.HandleFunc("/api/ws", s.handlers.WebSocket)
	return corsMiddleware(loggingMiddleware(mux))
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully within
// the configured timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve(ln)
	}()
	log.Info().
		Str("addr", ln.Addr().String()).
		Str("version", s.config.Version).
		Int("fast-workers", s.pool.Stats().MaxFast).
		Int("slow-workers", s.pool.Stats().MaxSlow).
		Msg("server-started")

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := <-errChan; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("server-stopped")
	return nil
}
