// Package server exposes the directory over HTTP: sign-in, the agency
// list, the conversational matcher, the trending view and its live
// websocket filter, plus health and stats endpoints.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ytheys/agency-radar/internal/auth"
	"github.com/ytheys/agency-radar/internal/config"
	"github.com/ytheys/agency-radar/internal/directory"
	"github.com/ytheys/agency-radar/internal/monitoring"
)

// Server wires the HTTP surface around the directory service.
type Server struct {
	cfg       config.ServerConfig
	service   *directory.Service
	auth      *auth.Service
	collector *monitoring.Collector
	debounce  time.Duration
}

// New builds a server. The collector is optional; without it the stats
// endpoint returns 404.
func New(cfg config.ServerConfig, service *directory.Service, authSvc *auth.Service, collector *monitoring.Collector) *Server {
	debounce := time.Duration(cfg.DebounceMillis) * time.Millisecond
	if debounce <= 0 {
		debounce = directory.DefaultDebounce
	}
	return &Server{
		cfg:       cfg,
		service:   service,
		auth:      authSvc,
		collector: collector,
		debounce:  debounce,
	}
}

// Router assembles the chi routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/api/auth/signin", s.handleSignIn)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/api/agencies", s.handleAgencies)
		r.Post("/api/match", s.handleMatch)
		r.Get("/api/trending", s.handleTrending)
		r.Get("/api/trending/live", s.handleTrendingLive)
		if s.collector != nil {
			r.Get("/api/stats", s.handleStats)
		}
	})

	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	zap.L().Info("starting server", zap.Int("port", s.cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}
