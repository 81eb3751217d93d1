// Package memory implements a catalog store kept in memory, optionally
// persisted as one YAML file per entity kind.
package memory

import (
	"context"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/techmarket/pkg/catalogs"
	"github.com/agentstation/techmarket/pkg/errors"
	"github.com/agentstation/techmarket/pkg/logging"
	"github.com/agentstation/techmarket/pkg/relation"
)

// Store keeps the catalog in memory. When a directory is configured every
// successful write is flushed to it.
type Store struct {
	mu     sync.Mutex // serializes writes and flushes
	cat    *catalogs.Catalog
	dir    string
	logger *zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithDir flushes the catalog to dir after every write.
func WithDir(dir string) Option {
	return func(s *Store) {
		s.dir = dir
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a store over cat. A nil cat starts empty.
func New(cat *catalogs.Catalog, opts ...Option) *Store {
	if cat == nil {
		cat = catalogs.New()
	}
	s := &Store{cat: cat, logger: logging.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads the YAML catalog in dir and keeps it in sync with the store. A
// missing directory opens an empty catalog that is created on first write.
func Open(dir string, opts ...Option) (*Store, error) {
	cat := catalogs.New()
	if _, err := os.Stat(dir); err == nil {
		if err := cat.Load(os.DirFS(dir)); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.WrapIO("stat", dir, err)
	}

	s := New(cat, append(opts, WithDir(dir))...)
	s.logger.Debug().
		Str("dir", dir).
		Int("devices", cat.Devices().Len()).
		Int("options", cat.Options().Len()).
		Msg("Opened YAML catalog")
	return s, nil
}

// Catalog returns a deep copy of the stored catalog.
func (s *Store) Catalog() *catalogs.Catalog {
	return s.cat.Copy()
}

// Devices returns every device with its add-ons.
func (s *Store) Devices(ctx context.Context) ([]*catalogs.Device, error) {
	return list(ctx, s.cat.Devices(), s.cat.ResolveDevice)
}

// AddOns returns every add-on.
func (s *Store) AddOns(ctx context.Context) ([]*catalogs.AddOn, error) {
	return list(ctx, s.cat.AddOns(), (*catalogs.AddOn).Clone)
}

// Characteristics returns every characteristic with its device.
func (s *Store) Characteristics(ctx context.Context) ([]*catalogs.Characteristic, error) {
	return list(ctx, s.cat.Characteristics(), s.cat.ResolveCharacteristic)
}

// Customizations returns every customization with its device and options.
func (s *Store) Customizations(ctx context.Context) ([]*catalogs.Customization, error) {
	return list(ctx, s.cat.Customizations(), s.cat.ResolveCustomization)
}

// Options returns every option with its customization.
func (s *Store) Options(ctx context.Context) ([]*catalogs.Option, error) {
	return list(ctx, s.cat.Options(), s.cat.ResolveOption)
}

// Sales returns every sale with its user.
func (s *Store) Sales(ctx context.Context) ([]*catalogs.Sale, error) {
	return list(ctx, s.cat.Sales(), s.cat.ResolveSale)
}

// Users returns every user.
func (s *Store) Users(ctx context.Context) ([]*catalogs.User, error) {
	return list(ctx, s.cat.Users(), (*catalogs.User).Clone)
}

func list[T catalogs.Entity](ctx context.Context, c *catalogs.Collection[T], resolve func(T) T) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items := c.List()
	for i, item := range items {
		items[i] = resolve(item)
	}
	return items, nil
}

// Get returns one resolved entity.
func (s *Store) Get(ctx context.Context, kind catalogs.Kind, id int64) (catalogs.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		e  catalogs.Entity
		ok bool
	)
	switch kind {
	case catalogs.KindDevice:
		e, ok = get(s.cat.Devices(), id, s.cat.ResolveDevice)
	case catalogs.KindAddOn:
		e, ok = get(s.cat.AddOns(), id, (*catalogs.AddOn).Clone)
	case catalogs.KindCharacteristic:
		e, ok = get(s.cat.Characteristics(), id, s.cat.ResolveCharacteristic)
	case catalogs.KindCustomization:
		e, ok = get(s.cat.Customizations(), id, s.cat.ResolveCustomization)
	case catalogs.KindOption:
		e, ok = get(s.cat.Options(), id, s.cat.ResolveOption)
	case catalogs.KindSale:
		e, ok = get(s.cat.Sales(), id, s.cat.ResolveSale)
	case catalogs.KindUser:
		e, ok = get(s.cat.Users(), id, (*catalogs.User).Clone)
	default:
		return nil, unknownKind(kind)
	}
	if !ok {
		return nil, errors.NewNotFoundError(kind.String(), id)
	}
	return e, nil
}

func get[T catalogs.Entity](c *catalogs.Collection[T], id int64, resolve func(T) T) (catalogs.Entity, bool) {
	v, ok := c.Get(id)
	if !ok {
		return nil, false
	}
	return resolve(v), true
}

// Save validates e, checks its references and stores it. Relationships are
// kept as id references. A customization with a non-nil Options slice
// becomes the owner of exactly those options.
func (s *Store) Save(ctx context.Context, e catalogs.Entity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := relation.Key[int64](e); !ok {
		return &errors.ValidationError{Field: "entity", Message: "is required"}
	}
	if err := e.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch v := e.(type) {
	case *catalogs.Device:
		err = s.saveDevice(v)
	case *catalogs.AddOn:
		assignID(&v.ID, s.cat.AddOns())
		err = s.cat.AddOns().Set(v.Clone())
	case *catalogs.Characteristic:
		err = s.saveCharacteristic(v)
	case *catalogs.Customization:
		err = s.saveCustomization(v)
	case *catalogs.Option:
		err = s.saveOption(v)
	case *catalogs.Sale:
		err = s.saveSale(v)
	case *catalogs.User:
		assignID(&v.ID, s.cat.Users())
		err = s.cat.Users().Set(v.Clone())
	default:
		return unknownKind(e.Kind())
	}
	if err != nil {
		return err
	}

	s.logger.Debug().
		Str("entity", e.Kind().String()).
		Int64("entity_id", e.RefID()).
		Msg("Saved entity")
	return s.flush()
}

func (s *Store) saveDevice(d *catalogs.Device) error {
	stored := d.Ref()
	for _, a := range relation.Merge[int64](nil, d.AddOns) {
		if !s.cat.AddOns().Exists(a.ID) {
			return errors.NewNotFoundError(catalogs.KindAddOn.String(), a.ID)
		}
		stored.AddOns = append(stored.AddOns, &catalogs.AddOn{ID: a.ID})
	}
	assignID(&d.ID, s.cat.Devices())
	stored.ID = d.ID
	return s.cat.Devices().Set(stored)
}

func (s *Store) saveCharacteristic(ch *catalogs.Characteristic) error {
	device, err := s.deviceStub(ch.Device)
	if err != nil {
		return err
	}
	assignID(&ch.ID, s.cat.Characteristics())
	stored := *ch
	stored.Device = device
	return s.cat.Characteristics().Set(&stored)
}

func (s *Store) saveCustomization(cu *catalogs.Customization) error {
	device, err := s.deviceStub(cu.Device)
	if err != nil {
		return err
	}
	for _, o := range cu.Options {
		if o != nil && !s.cat.Options().Exists(o.ID) {
			return errors.NewNotFoundError(catalogs.KindOption.String(), o.ID)
		}
	}

	assignID(&cu.ID, s.cat.Customizations())
	stored := cu.Ref()
	stored.Device = device
	if err := s.cat.Customizations().Set(stored); err != nil {
		return err
	}
	if cu.Options == nil {
		return nil
	}
	ids := make([]int64, 0, len(cu.Options))
	for _, o := range cu.Options {
		if o != nil {
			ids = append(ids, o.ID)
		}
	}
	return s.cat.AttachOptions(cu.ID, ids)
}

func (s *Store) saveOption(o *catalogs.Option) error {
	var owner *catalogs.Customization
	if o.Customization != nil {
		if !s.cat.Customizations().Exists(o.Customization.ID) {
			return errors.NewNotFoundError(catalogs.KindCustomization.String(), o.Customization.ID)
		}
		owner = &catalogs.Customization{ID: o.Customization.ID}
	}
	assignID(&o.ID, s.cat.Options())
	stored := *o
	stored.Customization = owner
	return s.cat.Options().Set(&stored)
}

func (s *Store) saveSale(sale *catalogs.Sale) error {
	var user *catalogs.User
	if sale.User != nil {
		if !s.cat.Users().Exists(sale.User.ID) {
			return errors.NewNotFoundError(catalogs.KindUser.String(), sale.User.ID)
		}
		user = &catalogs.User{ID: sale.User.ID}
	}
	assignID(&sale.ID, s.cat.Sales())
	stored := *sale
	stored.User = user
	return s.cat.Sales().Set(&stored)
}

func (s *Store) deviceStub(d *catalogs.Device) (*catalogs.Device, error) {
	if d == nil {
		return nil, nil
	}
	if !s.cat.Devices().Exists(d.ID) {
		return nil, errors.NewNotFoundError(catalogs.KindDevice.String(), d.ID)
	}
	return &catalogs.Device{ID: d.ID}, nil
}

// Delete removes an entity. Resolution drops references to it.
func (s *Store) Delete(ctx context.Context, kind catalogs.Kind, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch kind {
	case catalogs.KindDevice:
		err = s.cat.Devices().Delete(id)
	case catalogs.KindAddOn:
		err = s.cat.AddOns().Delete(id)
	case catalogs.KindCharacteristic:
		err = s.cat.Characteristics().Delete(id)
	case catalogs.KindCustomization:
		err = s.cat.Customizations().Delete(id)
	case catalogs.KindOption:
		err = s.cat.Options().Delete(id)
	case catalogs.KindSale:
		err = s.cat.Sales().Delete(id)
	case catalogs.KindUser:
		err = s.cat.Users().Delete(id)
	default:
		return unknownKind(kind)
	}
	if err != nil {
		return err
	}
	return s.flush()
}

// Close is a no-op; writes are flushed as they happen.
func (s *Store) Close() error { return nil }

func (s *Store) flush() error {
	if s.dir == "" {
		return nil
	}
	return s.cat.Save(s.dir)
}

func assignID[T catalogs.Entity](id *int64, c *catalogs.Collection[T]) {
	if *id == 0 {
		*id = c.NextID()
	}
}

func unknownKind(kind catalogs.Kind) error {
	return &errors.ValidationError{Field: "kind", Value: kind, Message: "unknown entity kind"}
}
