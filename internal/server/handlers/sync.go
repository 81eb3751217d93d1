package handlers

import (
	"net/http"

	"github.com/agentstation/techmarket/internal/server/response"
)

// HandleSync handles POST /api/v1/sync. It runs one sync pass against the
// remote catalog and reports what changed.
func (h *Handlers) HandleSync(w http.ResponseWriter, r *http.Request) {
	if !h.catalog.HasRemote() {
		response.ServiceUnavailable(w, "No remote catalog configured")
		return
	}

	result, err := h.catalog.Sync(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, result)
}
