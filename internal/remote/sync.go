package remote

import (
	"context"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"

	"github.com/agentstation/techmarket/internal/storage"
	"github.com/agentstation/techmarket/pkg/catalogs"
	"github.com/agentstation/techmarket/pkg/constants"
	"github.com/agentstation/techmarket/pkg/errors"
	"github.com/agentstation/techmarket/pkg/logging"
	"github.com/agentstation/techmarket/pkg/relation"
)

// DeviceSource lists the devices published by the remote catalog.
type DeviceSource interface {
	Devices(ctx context.Context) ([]Device, error)
}

// SyncResult counts what a sync pass did to the local store.
type SyncResult struct {
	Devices   int `json:"devices" yaml:"devices"`
	Added     int `json:"added" yaml:"added"`
	Updated   int `json:"updated" yaml:"updated"`
	Unchanged int `json:"unchanged" yaml:"unchanged"`
}

// Changed reports whether the pass wrote anything.
func (r SyncResult) Changed() bool {
	return r.Added+r.Updated > 0
}

// Syncer copies the remote catalog into a local store.
type Syncer struct {
	source   DeviceSource
	store    storage.Store
	logger   *zerolog.Logger
	onSynced func(SyncResult)
}

// NewSyncer creates a syncer reading from source and writing to store.
func NewSyncer(source DeviceSource, store storage.Store, logger *zerolog.Logger) *Syncer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Syncer{source: source, store: store, logger: logger}
}

// OnSynced sets a callback run after every pass, including a failed one with
// the counts reached before the failure. It must be set before the first Sync.
func (s *Syncer) OnSynced(fn func(SyncResult)) {
	s.onSynced = fn
}

// References below the compared entity are compared by id; a remote entity
// carries only stubs.
var sameRefs = cmp.Options{
	cmp.FilterPath(func(p cmp.Path) bool { return len(p) > 1 }, cmp.Options{
		cmp.Comparer(relation.Equal[int64, *catalogs.Device]),
		cmp.Comparer(relation.Equal[int64, *catalogs.AddOn]),
		cmp.Comparer(relation.Equal[int64, *catalogs.Customization]),
	}),
	cmpopts.IgnoreFields(catalogs.Customization{}, "Options"),
	cmpopts.IgnoreFields(catalogs.Device{}, "Characteristics", "Customizations"),
	cmpopts.EquateEmpty(),
}

// Sync pulls every remote device and upserts it, together with its add-ons,
// characteristics, customizations and options. Entities missing locally are
// added and entities that differ are replaced. Add-ons attached to a device
// locally stay attached.
func (s *Syncer) Sync(ctx context.Context) (SyncResult, error) {
	ctx = logging.WithOperation(logging.WithDefaultLogger(ctx, s.logger), "sync")
	result, err := s.sync(ctx)
	if s.onSynced != nil {
		s.onSynced(result)
	}
	return result, err
}

func (s *Syncer) sync(ctx context.Context) (SyncResult, error) {
	var result SyncResult

	devices, err := s.source.Devices(ctx)
	if err != nil {
		return result, &errors.SyncError{Resource: "devices", Err: err}
	}

	for _, d := range devices {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := s.syncDevice(ctx, d.Entities(), &result); err != nil {
			return result, &errors.SyncError{Resource: "device", IDs: []int64{d.ID}, Err: err}
		}
		result.Devices++
	}

	logging.FromContext(ctx).Info().
		Int("devices", result.Devices).
		Int("added", result.Added).
		Int("updated", result.Updated).
		Int("unchanged", result.Unchanged).
		Msg("Remote catalog synced")
	return result, nil
}

func (s *Syncer) syncDevice(ctx context.Context, e Entities, result *SyncResult) error {
	for _, a := range e.AddOns {
		if err := upsert(ctx, s.store, a, result); err != nil {
			return err
		}
	}

	local, err := storage.Get[*catalogs.Device](ctx, s.store, e.Device.ID)
	switch {
	case err == nil:
		e.Device.AddOns = relation.Merge[int64](e.Device.AddOns, local.AddOns)
	case !errors.IsNotFound(err):
		return err
	}
	if err := upsert(ctx, s.store, e.Device, result); err != nil {
		return err
	}

	for _, c := range e.Characteristics {
		if err := upsert(ctx, s.store, c, result); err != nil {
			return err
		}
	}
	for _, c := range e.Customizations {
		if err := upsert(ctx, s.store, c, result); err != nil {
			return err
		}
	}
	for _, o := range e.Options {
		if err := upsert(ctx, s.store, o, result); err != nil {
			return err
		}
	}
	return nil
}

// upsert saves remote unless the store already holds an equal entity.
func upsert[T catalogs.Entity](ctx context.Context, store storage.Store, remote T, result *SyncResult) error {
	local, err := storage.Get[T](ctx, store, remote.RefID())
	found := err == nil
	if err != nil && !errors.IsNotFound(err) {
		return err
	}
	if found && cmp.Equal(local, remote, sameRefs) {
		result.Unchanged++
		return nil
	}

	if err := store.Save(ctx, remote); err != nil {
		return err
	}
	if found {
		result.Updated++
	} else {
		result.Added++
	}
	return nil
}

// Run syncs once and then on every interval until ctx is cancelled. Failed
// passes are logged and retried on the next tick.
func (s *Syncer) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = constants.DefaultSyncInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.runOnce(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Syncer) runOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, constants.SyncTimeout)
	defer cancel()

	if _, err := s.Sync(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error().Err(err).Msg("Remote catalog sync failed")
	}
}
