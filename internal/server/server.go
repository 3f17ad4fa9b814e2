// Package server serves rendered pages and the pipeline view states over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/julianstephens/sitelit/internal/constants"
	"github.com/julianstephens/sitelit/internal/logger"
	"github.com/julianstephens/sitelit/internal/site"
)

// Config configures a Server.
type Config struct {
	Addr string
	// Site is the base page description. Each request builds its own Site from it.
	Site        site.Options
	ToggleRate  float64
	ToggleBurst int
	// Registry receives the server metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
}

type Server struct {
	cfg      Config
	metrics  *Metrics
	limiter  *RateLimiter
	registry *prometheus.Registry
}

func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = constants.DefaultServerAddr
	}
	if cfg.ToggleRate <= 0 {
		cfg.ToggleRate = constants.DefaultToggleRate
	}
	if cfg.ToggleBurst <= 0 {
		cfg.ToggleBurst = constants.DefaultToggleBurst
	}
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &Server{
		cfg:      cfg,
		metrics:  NewMetrics(reg),
		limiter:  NewRateLimiter(cfg.ToggleRate, cfg.ToggleBurst),
		registry: reg,
	}
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.metrics.Monitor)

	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/", s.page).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/progress", s.progress).Methods(http.MethodGet)
	api.HandleFunc("/calendar", s.calendar).Methods(http.MethodGet)
	api.HandleFunc("/calendar/day/{date}", s.day).Methods(http.MethodGet)

	checks := api.PathPrefix("/progress/checks").Subrouter()
	checks.Use(s.limiter.Middleware)
	checks.HandleFunc("/{name}", s.toggle).Methods(http.MethodPost)

	return RequestID(AccessLog(handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(r)))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: constants.ReadHeaderTimeout,
	}

	go s.limiter.Cleanup(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting preview server", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("Preview server stopped")
	return nil
}
