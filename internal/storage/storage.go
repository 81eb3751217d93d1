// Package storage defines where the catalog lives and adapts a store to the
// listing queries used by the edit forms.
//
// Stores return entities with their relationships resolved: references point
// at the current version of the target and references to deleted entities
// are dropped. Saving an entity with id zero assigns the next free id and
// writes it back into the entity.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/techmarket/internal/storage/memory"
	"github.com/agentstation/techmarket/internal/storage/sqlite"
	"github.com/agentstation/techmarket/pkg/catalogs"
	"github.com/agentstation/techmarket/pkg/constants"
	"github.com/agentstation/techmarket/pkg/errors"
	"github.com/agentstation/techmarket/pkg/forms"
)

// Store persists catalog entities.
type Store interface {
	Devices(ctx context.Context) ([]*catalogs.Device, error)
	AddOns(ctx context.Context) ([]*catalogs.AddOn, error)
	Characteristics(ctx context.Context) ([]*catalogs.Characteristic, error)
	Customizations(ctx context.Context) ([]*catalogs.Customization, error)
	Options(ctx context.Context) ([]*catalogs.Option, error)
	Sales(ctx context.Context) ([]*catalogs.Sale, error)
	Users(ctx context.Context) ([]*catalogs.User, error)

	// Get returns one entity of the given kind. A missing entity is a
	// NotFoundError.
	Get(ctx context.Context, kind catalogs.Kind, id int64) (catalogs.Entity, error)
	// Save validates and inserts or replaces an entity. Referenced entities
	// must exist.
	Save(ctx context.Context, e catalogs.Entity) error
	// Delete removes an entity. References to it are dropped.
	Delete(ctx context.Context, kind catalogs.Kind, id int64) error

	Close() error
}

// Drivers.
const (
	DriverMemory = "memory"
	DriverYAML   = "yaml"
	DriverSQLite = "sqlite"
)

// Config selects and configures a store.
type Config struct {
	// Driver is one of memory, yaml or sqlite. Empty picks sqlite when
	// Database is set and yaml otherwise.
	Driver string `mapstructure:"storage" yaml:"storage"`
	// DataPath is the directory of the YAML catalog files.
	DataPath string `mapstructure:"data_path" yaml:"data_path"`
	// Database is the sqlite database file. Relative paths live in DataPath.
	Database string `mapstructure:"database" yaml:"database"`
}

// Open opens the store described by cfg.
func Open(ctx context.Context, cfg Config, logger *zerolog.Logger) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = DriverYAML
		if cfg.Database != "" {
			driver = DriverSQLite
		}
	}

	switch driver {
	case DriverMemory:
		return memory.New(nil, memory.WithLogger(logger)), nil
	case DriverYAML:
		if cfg.DataPath == "" {
			return nil, &errors.ConfigError{Component: "storage", Message: "data_path is required for the yaml store"}
		}
		return memory.Open(cfg.DataPath, memory.WithLogger(logger))
	case DriverSQLite:
		path := cfg.Database
		if path == "" {
			path = constants.DefaultDatabaseFile
		}
		if !filepath.IsAbs(path) && cfg.DataPath != "" {
			path = filepath.Join(cfg.DataPath, path)
		}
		return sqlite.Open(ctx, path, sqlite.WithLogger(logger))
	}
	return nil, &errors.ConfigError{
		Component: "storage",
		Message:   fmt.Sprintf("unknown storage driver %q (want memory, yaml or sqlite)", cfg.Driver),
	}
}

// Sources returns the listing queries of s for the edit forms.
func Sources(s Store) forms.Sources {
	return forms.Sources{
		Devices:        forms.ListerFunc[*catalogs.Device](s.Devices),
		AddOns:         forms.ListerFunc[*catalogs.AddOn](s.AddOns),
		Customizations: forms.ListerFunc[*catalogs.Customization](s.Customizations),
		Options:        forms.ListerFunc[*catalogs.Option](s.Options),
		Users:          forms.ListerFunc[*catalogs.User](s.Users),
	}
}

// List returns every entity of a kind ordered by id.
func List(ctx context.Context, s Store, kind catalogs.Kind) ([]catalogs.Entity, error) {
	switch kind {
	case catalogs.KindDevice:
		return entities(s.Devices(ctx))
	case catalogs.KindAddOn:
		return entities(s.AddOns(ctx))
	case catalogs.KindCharacteristic:
		return entities(s.Characteristics(ctx))
	case catalogs.KindCustomization:
		return entities(s.Customizations(ctx))
	case catalogs.KindOption:
		return entities(s.Options(ctx))
	case catalogs.KindSale:
		return entities(s.Sales(ctx))
	case catalogs.KindUser:
		return entities(s.Users(ctx))
	}
	return nil, &errors.ValidationError{Field: "kind", Value: kind, Message: "unknown entity kind"}
}

// Get returns the entity of type T with the given id.
func Get[T catalogs.Entity](ctx context.Context, s Store, id int64) (T, error) {
	var zero T
	e, err := s.Get(ctx, zero.Kind(), id)
	if err != nil {
		return zero, err
	}
	v, ok := e.(T)
	if !ok {
		return zero, fmt.Errorf("store returned %T for %s %d", e, zero.Kind(), id)
	}
	return v, nil
}

func entities[T catalogs.Entity](items []T, err error) ([]catalogs.Entity, error) {
	if err != nil {
		return nil, err
	}
	out := make([]catalogs.Entity, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out, nil
}
