// Package server provides the HTTP API of the techmarket catalog.
//
// The architecture follows the pattern CLI → App → Server → Router → Handlers:
//
//	srv, err := server.New(app, server.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	return srv.Run(ctx) // serves until ctx is canceled
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/techmarket"
	"github.com/agentstation/techmarket/cmd/application"
	"github.com/agentstation/techmarket/internal/remote"
	"github.com/agentstation/techmarket/internal/server/cache"
	"github.com/agentstation/techmarket/pkg/catalogs"
	"github.com/agentstation/techmarket/pkg/constants"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	svc       *techmarket.Service
	cache     *cache.Cache
	logger    *zerolog.Logger
	config    Config
	startTime time.Time
}

// New creates a new server instance with the given configuration.
func New(app application.Application, cfg Config) (*Server, error) {
	logger := app.Logger()

	svc, err := app.Service()
	if err != nil {
		return nil, err
	}

	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = constants.CacheTTL
	}

	s := &Server{
		svc:       svc,
		cache:     cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		logger:    logger,
		config:    cfg,
		startTime: time.Now(),
	}
	s.connectHooks()

	logger.Debug().Msg("Server instance created")
	return s, nil
}

// connectHooks keeps cached responses in step with catalog changes. Saved
// entities show up resolved inside other kinds' responses, so a change clears
// the whole cache. Sales are referenced by nothing and only drop their own
// entries.
func (s *Server) connectHooks() {
	s.svc.OnSaved(func(e catalogs.Entity) {
		s.invalidate(e.Kind())
	})
	s.svc.OnDeleted(func(kind catalogs.Kind, id int64) {
		s.invalidate(kind)
	})
	s.svc.OnSynced(func(result remote.SyncResult) {
		s.cache.Clear()
		s.logger.Debug().
			Int("added", result.Added).
			Int("updated", result.Updated).
			Msg("Cache cleared after sync")
	})
}

func (s *Server) invalidate(kind catalogs.Kind) {
	if kind == catalogs.KindSale {
		n := s.cache.DeletePrefix(cache.Key("list", kind.String()) + ":")
		n += s.cache.DeletePrefix(cache.Key("get", kind.String()) + ":")
		s.logger.Debug().Int("entries", n).Msg("Sale cache entries dropped")
		return
	}
	s.cache.Clear()
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully, giving
// in-flight requests up to constants.ShutdownTimeout to finish.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		s.logger.Info().Msg("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		s.logger.Info().Msg("Server stopped gracefully")
		return nil
	}
}

// Cache returns the server's cache instance.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
