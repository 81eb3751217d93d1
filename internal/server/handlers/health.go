package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/agentstation/techmarket/internal/server/response"
	"github.com/agentstation/techmarket/pkg/catalogs"
)

// HandleHealth handles GET /health (liveness check).
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "techmarket-api",
		"version": "v1",
		"uptime":  time.Since(h.startTime).Round(time.Second).String(),
	})
}

// HandleReady handles GET /api/v1/ready. The store must answer a listing
// query for the service to be ready.
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := h.catalog.List(ctx, catalogs.KindDevice); err != nil {
		h.logger.Warn().Err(err).Msg("Readiness check failed")
		response.ServiceUnavailable(w, "Catalog store not available")
		return
	}

	response.OK(w, map[string]any{
		"status": "ready",
		"remote": h.catalog.HasRemote(),
		"cache": map[string]any{
			"items": h.cache.ItemCount(),
		},
	})
}
