// Package handlers provides HTTP request handlers for the techmarket API.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/techmarket/internal/remote"
	"github.com/agentstation/techmarket/internal/server/cache"
	"github.com/agentstation/techmarket/internal/server/response"
	"github.com/agentstation/techmarket/pkg/catalogs"
	"github.com/agentstation/techmarket/pkg/errors"
	"github.com/agentstation/techmarket/pkg/forms"
	"github.com/agentstation/techmarket/pkg/logging"
	"github.com/agentstation/techmarket/pkg/sales"
)

// Catalog is the catalog service the handlers serve.
type Catalog interface {
	List(ctx context.Context, kind catalogs.Kind) ([]catalogs.Entity, error)
	Get(ctx context.Context, kind catalogs.Kind, id int64) (catalogs.Entity, error)
	Form(ctx context.Context, kind catalogs.Kind, id int64) (forms.Form, error)
	Quote(ctx context.Context, deviceID int64, optionIDs, addOnIDs []int64) (*sales.Quote, error)
	Sell(ctx context.Context, userID, deviceID int64, optionIDs, addOnIDs []int64) (*catalogs.Sale, error)
	Sync(ctx context.Context) (remote.SyncResult, error)
	HasRemote() bool
}

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	catalog   Catalog
	cache     *cache.Cache
	logger    *zerolog.Logger
	startTime time.Time
}

// New creates a new Handlers instance.
func New(catalog Catalog, cache *cache.Cache, logger *zerolog.Logger, startTime time.Time) *Handlers {
	return &Handlers{
		catalog:   catalog,
		cache:     cache,
		logger:    logger,
		startTime: startTime,
	}
}

// fail logs err with the request's logger and writes the matching error
// response.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.FromContext(r.Context())
	if errors.IsCanceled(err) {
		logger.Debug().Err(err).Str("path", r.URL.Path).Msg("Request canceled")
	} else {
		logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	}
	response.ErrorFromType(w, err)
}
