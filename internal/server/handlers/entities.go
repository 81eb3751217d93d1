package handlers

import (
	"net/http"
	"strconv"

	"github.com/agentstation/techmarket/internal/server/cache"
	"github.com/agentstation/techmarket/internal/server/response"
	"github.com/agentstation/techmarket/pkg/catalogs"
	"github.com/agentstation/techmarket/pkg/errors"
	"github.com/agentstation/techmarket/pkg/forms"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// Page is one page of a listing.
type Page struct {
	Items      []catalogs.Entity `json:"items"`
	Pagination Pagination        `json:"pagination"`
}

// Pagination describes the slice of a listing a Page holds.
type Pagination struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// FormView is the wire form of an edit form.
type FormView struct {
	Kind   catalogs.Kind `json:"kind"`
	ID     int64         `json:"id"`
	Fields []forms.Field `json:"fields"`
}

// HandleList handles GET /api/v1/{entity}.
// Query parameters limit (default 100, max 1000) and offset page the listing.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}

	limit, err := queryInt(r, "limit", defaultLimit)
	if err != nil || limit < 1 {
		response.BadRequest(w, "Invalid limit", r.URL.Query().Get("limit"))
		return
	}
	limit = min(limit, maxLimit)
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		response.BadRequest(w, "Invalid offset", r.URL.Query().Get("offset"))
		return
	}

	key := cache.Key("list", kind.String(), r.URL.RawQuery)
	if cached, found := h.cache.Get(key); found {
		response.OK(w, cached)
		return
	}

	items, err := h.catalog.List(r.Context(), kind)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	total := len(items)
	start := min(offset, total)
	end := min(start+limit, total)
	page := Page{
		Items: items[start:end],
		Pagination: Pagination{
			Total:  total,
			Limit:  limit,
			Offset: offset,
			Count:  end - start,
		},
	}

	h.cache.Set(key, page)
	response.OK(w, page)
}

// HandleGet handles GET /api/v1/{entity}/{id}.
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	key := cache.Key("get", kind.String(), strconv.FormatInt(id, 10))
	if cached, found := h.cache.Get(key); found {
		response.OK(w, cached)
		return
	}

	entity, err := h.catalog.Get(r.Context(), kind, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.cache.Set(key, entity)
	response.OK(w, entity)
}

// HandleForm handles GET /api/v1/{entity}/{id}/form.
func (h *Handlers) HandleForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.form(w, r, id)
}

// HandleNewForm handles GET /api/v1/{entity}/new/form.
func (h *Handlers) HandleNewForm(w http.ResponseWriter, r *http.Request) {
	h.form(w, r, 0)
}

// form writes the reconciled relationship options of an edit form. Forms are
// never cached: every load queries the candidates again.
func (h *Handlers) form(w http.ResponseWriter, r *http.Request, id int64) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}

	form, err := h.catalog.Form(r.Context(), kind, id)
	if form == nil {
		h.fail(w, r, err)
		return
	}

	view := FormView{Kind: form.Kind(), ID: form.ID(), Fields: form.Fields()}
	if err != nil {
		if !errors.IsFetchError(err) {
			h.fail(w, r, err)
			return
		}
		h.logger.Warn().Err(err).Str("kind", kind.String()).Int64("id", id).Msg("Serving form with stale options")
		response.Partial(w, view, "OPTIONS_UNAVAILABLE", err.Error())
		return
	}
	response.OK(w, view)
}

func (h *Handlers) kind(w http.ResponseWriter, r *http.Request) (catalogs.Kind, bool) {
	kind, err := catalogs.ParseKind(r.PathValue("entity"))
	if err != nil {
		response.NotFound(w, "Unknown entity", r.PathValue("entity"))
		return "", false
	}
	return kind, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid id", raw)
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
