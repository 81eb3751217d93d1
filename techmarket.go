// Package techmarket is the entry point of the device catalog: it ties the
// local store, the relationship edit forms, sale pricing and the remote
// catalog sync together.
//
// Example usage:
//
//	svc, err := techmarket.New(
//	    techmarket.WithDataPath("./catalog"),
//	    techmarket.WithRemote(remote.Config{URL: url, Username: user, Password: pass}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Close()
//
//	// Load the edit form of device 1 with its add-on picker reconciled
//	form, err := svc.Form(ctx, catalogs.KindDevice, 1)
//
//	// Price device 1 with option 3 and add-on 2
//	quote, err := svc.Quote(ctx, 1, []int64{3}, []int64{2})
//
//	// Pull the remote catalog into the local store
//	result, err := svc.Sync(ctx)
package techmarket

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/techmarket/internal/remote"
	"github.com/agentstation/techmarket/internal/storage"
	"github.com/agentstation/techmarket/pkg/catalogs"
	"github.com/agentstation/techmarket/pkg/errors"
	"github.com/agentstation/techmarket/pkg/forms"
	"github.com/agentstation/techmarket/pkg/logging"
	"github.com/agentstation/techmarket/pkg/sales"
)

// Service is the catalog service. It is safe for concurrent use.
type Service struct {
	options *options

	store     storage.Store
	ownsStore bool
	sources   forms.Sources
	remote    *remote.Client
	syncer    *remote.Syncer
	logger    *zerolog.Logger
	hooks     *hooks

	// auto sync state
	mu         sync.Mutex
	syncCancel context.CancelFunc
	syncDone   chan struct{}
}

// New creates a Service. Without WithStore or WithDataPath the catalog lives
// in memory.
func New(opts ...Option) (*Service, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	s := &Service{
		options: o,
		store:   o.store,
		logger:  o.logger,
		hooks:   newHooks(),
	}

	if s.store == nil {
		store, err := storage.Open(context.Background(), o.storage, o.logger)
		if err != nil {
			return nil, err
		}
		s.store = store
		s.ownsStore = true
	}
	s.sources = storage.Sources(s.store)

	if o.remote != nil {
		ropts := append([]remote.ClientOption{remote.WithLogger(o.logger)}, o.remoteOpt...)
		client, err := remote.NewClient(*o.remote, ropts...)
		if err != nil {
			_ = s.closeStore()
			return nil, err
		}
		s.remote = client
		s.syncer = remote.NewSyncer(client, s.store, o.logger)
		s.syncer.OnSynced(s.hooks.synced)
	}

	if o.autoSync && s.syncer != nil {
		if err := s.AutoSyncOn(); err != nil {
			_ = s.closeStore()
			return nil, err
		}
	}

	s.logger.Debug().
		Bool("remote", s.remote != nil).
		Bool("auto_sync", o.autoSync).
		Msg("Catalog service ready")
	return s, nil
}

// Store returns the underlying store.
func (s *Service) Store() storage.Store {
	return s.store
}

// Logger returns the service logger.
func (s *Service) Logger() *zerolog.Logger {
	return s.logger
}

// HasRemote reports whether a remote catalog is configured.
func (s *Service) HasRemote() bool {
	return s.remote != nil
}

// OnSaved registers a callback for saved entities.
func (s *Service) OnSaved(fn SavedHook) { s.hooks.OnSaved(fn) }

// OnDeleted registers a callback for deleted entities.
func (s *Service) OnDeleted(fn DeletedHook) { s.hooks.OnDeleted(fn) }

// OnSynced registers a callback for sync passes that changed the catalog.
func (s *Service) OnSynced(fn SyncedHook) { s.hooks.OnSynced(fn) }

// List returns every entity of a kind ordered by id.
func (s *Service) List(ctx context.Context, kind catalogs.Kind) ([]catalogs.Entity, error) {
	return storage.List(ctx, s.store, kind)
}

// Get returns one entity with its relationships resolved.
func (s *Service) Get(ctx context.Context, kind catalogs.Kind, id int64) (catalogs.Entity, error) {
	return s.store.Get(ctx, kind, id)
}

// Save stores an entity. A new entity (id zero) gets the next id.
func (s *Service) Save(ctx context.Context, e catalogs.Entity) error {
	if err := s.store.Save(ctx, e); err != nil {
		return err
	}
	s.hooks.saved(e)
	return nil
}

// Delete removes an entity.
func (s *Service) Delete(ctx context.Context, kind catalogs.Kind, id int64) error {
	if err := s.store.Delete(ctx, kind, id); err != nil {
		return err
	}
	s.hooks.deleted(kind, id)
	return nil
}

// Form loads the edit form of an entity, or of a new entity when id is zero.
//
// When some relationship options cannot be fetched the form is still
// returned, together with a FetchError; the affected fields keep the
// entity's current selection as their only options.
func (s *Service) Form(ctx context.Context, kind catalogs.Kind, id int64) (forms.Form, error) {
	var entity catalogs.Entity
	if id != 0 {
		e, err := s.store.Get(ctx, kind, id)
		if err != nil {
			return nil, err
		}
		entity = e
	}
	return forms.Load(ctx, s.sources, kind, entity)
}

// Quote prices a device with the given options and add-ons.
func (s *Service) Quote(ctx context.Context, deviceID int64, optionIDs, addOnIDs []int64) (*sales.Quote, error) {
	device, err := storage.Get[*catalogs.Device](ctx, s.store, deviceID)
	if err != nil {
		return nil, err
	}
	options, err := getAll[*catalogs.Option](ctx, s.store, optionIDs)
	if err != nil {
		return nil, err
	}
	addOns, err := getAll[*catalogs.AddOn](ctx, s.store, addOnIDs)
	if err != nil {
		return nil, err
	}
	return sales.NewQuote(device, options, addOns)
}

// Sell prices a sale, submits it to the remote catalog when one is
// configured, and records it locally credited to the given user. A zero
// userID records the sale without a user.
func (s *Service) Sell(ctx context.Context, userID, deviceID int64, optionIDs, addOnIDs []int64) (*catalogs.Sale, error) {
	ctx = logging.WithOperation(logging.WithDefaultLogger(ctx, s.logger), "sell")
	q, err := s.Quote(ctx, deviceID, optionIDs, addOnIDs)
	if err != nil {
		return nil, err
	}

	var user *catalogs.User
	if userID != 0 {
		if user, err = storage.Get[*catalogs.User](ctx, s.store, userID); err != nil {
			return nil, err
		}
	}

	at := time.Now().UTC()
	var id int64
	if s.remote != nil {
		result, err := s.remote.SubmitSale(ctx, q.Request(at))
		if err != nil {
			return nil, err
		}
		id = result.SaleID
		if err := s.checkSaleID(ctx, id); err != nil {
			return nil, err
		}
	}

	sale := q.Sale(id, user, at)
	if err := s.Save(ctx, sale); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info().
		Int64("sale_id", sale.ID).
		Int64("device_id", deviceID).
		Float64("final_price", sale.FinalPrice).
		Msg("Sale recorded")
	return sale, nil
}

// checkSaleID refuses a remote sale id that is already recorded locally.
func (s *Service) checkSaleID(ctx context.Context, id int64) error {
	_, err := storage.Get[*catalogs.Sale](ctx, s.store, id)
	switch {
	case err == nil:
		logging.FromContext(ctx).Warn().Int64("sale_id", id).Msg("Remote sale id already recorded locally")
		return errors.NewAlreadyExistsError("sale", id)
	case errors.IsNotFound(err):
		return nil
	default:
		return err
	}
}

// Sync pulls the remote catalog into the local store.
func (s *Service) Sync(ctx context.Context) (remote.SyncResult, error) {
	if s.syncer == nil {
		return remote.SyncResult{}, &errors.ConfigError{Component: "remote", Message: "no remote catalog configured"}
	}
	return s.syncer.Sync(ctx)
}

// Close stops background syncing and closes the store when the service
// opened it.
func (s *Service) Close() error {
	if err := s.AutoSyncOff(); err != nil {
		return err
	}
	return s.closeStore()
}

func (s *Service) closeStore() error {
	if !s.ownsStore {
		return nil
	}
	return s.store.Close()
}

func getAll[T catalogs.Entity](ctx context.Context, store storage.Store, ids []int64) ([]T, error) {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		v, err := storage.Get[T](ctx, store, id)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
