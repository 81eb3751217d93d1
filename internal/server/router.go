package server

import (
	"net/http"

	"github.com/agentstation/techmarket/internal/server/handlers"
	"github.com/agentstation/techmarket/internal/server/middleware"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()
	h := handlers.New(s.svc, s.cache, s.logger, s.startTime)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	// Return 204 No Content to avoid 404 logs
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET "+prefix+"/health", h.HandleHealth)
	mux.HandleFunc("GET "+prefix+"/ready", h.HandleReady)

	// Entities
	mux.HandleFunc("GET "+prefix+"/{entity}", h.HandleList)
	mux.HandleFunc("GET "+prefix+"/{entity}/{id}", h.HandleGet)
	mux.HandleFunc("GET "+prefix+"/{entity}/{id}/form", h.HandleForm)
	mux.HandleFunc("GET "+prefix+"/{entity}/new/form", h.HandleNewForm)

	// Sales
	mux.HandleFunc("POST "+prefix+"/quotes", h.HandleQuote)
	mux.HandleFunc("POST "+prefix+"/sales", h.HandleSell)

	// Remote catalog
	mux.HandleFunc("POST "+prefix+"/sync", h.HandleSync)
}

// applyMiddleware wraps handler with middleware chain. Recovery is the
// outermost layer so panics in any other middleware are caught too.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.RequestID,
		middleware.Logger(s.logger),
	}

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
		} else {
			corsConfig.AllowAll = true
		}
		chain = append(chain, middleware.CORS(corsConfig))
	}

	return middleware.Chain(chain...)(handler)
}
