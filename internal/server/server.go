// Package server exposes the admin HTTP API over the resort store.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/powderlines/resort-cli/internal/store"
)

// Options configures the admin server.
type Options struct {
	Port       int
	AdminToken string
	MaxMiles   float64 // default radius for the nearby endpoint
}

// Server serves the admin API.
type Server struct {
	store store.Store
	opts  Options
}

// New creates a Server over the given store.
func New(st store.Store, opts Options) *Server {
	if opts.MaxMiles <= 0 {
		opts.MaxMiles = 100
	}
	return &Server{store: st, opts: opts}
}

// Router builds the chi router. Everything under /api requires the admin
// bearer token; /health does not.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(api chi.Router) {
		api.Use(bearerAuth(s.opts.AdminToken))

		api.Get("/resorts", s.handleListResorts)
		api.Post("/resorts", s.handleCreateResort)
		api.Route("/resorts/{slug}", func(rr chi.Router) {
			rr.Get("/", s.handleGetResort)
			rr.Put("/", s.handleUpdateResort)
			rr.Delete("/", s.handleDeleteResort)
			rr.Get("/conditions", s.handleGetConditions)
			rr.Put("/conditions", s.handlePutConditions)
			rr.Get("/nearby", s.handleNearby)
		})
	})

	return r
}

// Run serves until the context is canceled or SIGINT/SIGTERM arrives,
// then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.opts.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zap.S().Infow("admin API listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server: listen")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		zap.S().Info("shutting down")
		return eris.Wrap(srv.Shutdown(shutdownCtx), "server: shutdown")
	})

	return g.Wait()
}
