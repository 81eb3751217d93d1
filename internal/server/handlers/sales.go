package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/techmarket/internal/server/response"
)

const maxBodyBytes = 1 << 20

// SaleRequest is the body of POST /api/v1/quotes and POST /api/v1/sales.
type SaleRequest struct {
	DeviceID  int64   `json:"device_id"`
	OptionIDs []int64 `json:"option_ids"`
	AddOnIDs  []int64 `json:"add_on_ids"`
	// UserID credits a sale to a user. Ignored by quotes.
	UserID int64 `json:"user_id,omitempty"`
}

// HandleQuote handles POST /api/v1/quotes.
func (h *Handlers) HandleQuote(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSale(w, r)
	if !ok {
		return
	}

	quote, err := h.catalog.Quote(r.Context(), req.DeviceID, req.OptionIDs, req.AddOnIDs)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, quote)
}

// HandleSell handles POST /api/v1/sales.
func (h *Handlers) HandleSell(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSale(w, r)
	if !ok {
		return
	}

	sale, err := h.catalog.Sell(r.Context(), req.UserID, req.DeviceID, req.OptionIDs, req.AddOnIDs)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Created(w, sale)
}

func decodeSale(w http.ResponseWriter, r *http.Request) (SaleRequest, bool) {
	var req SaleRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return req, false
	}
	if req.DeviceID <= 0 {
		response.BadRequest(w, "device_id is required", "")
		return req, false
	}
	return req, true
}
