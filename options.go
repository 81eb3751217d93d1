package techmarket

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/techmarket/internal/remote"
	"github.com/agentstation/techmarket/internal/storage"
	"github.com/agentstation/techmarket/pkg/constants"
	"github.com/agentstation/techmarket/pkg/errors"
	"github.com/agentstation/techmarket/pkg/logging"
)

// Option is a function that configures a Service
type Option func(*options) error

// options holds the Service configuration
type options struct {
	store     storage.Store
	storage   storage.Config
	logger    *zerolog.Logger
	remote    *remote.Config
	remoteOpt []remote.ClientOption

	autoSync         bool
	autoSyncInterval time.Duration
}

func defaults() *options {
	return &options{
		storage:          storage.Config{Driver: storage.DriverMemory},
		logger:           logging.Default(),
		autoSyncInterval: constants.DefaultSyncInterval,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithStore uses an already opened store. The caller keeps ownership and
// closes it after the service.
func WithStore(s storage.Store) Option {
	return func(o *options) error {
		if s == nil {
			return &errors.ValidationError{Field: "store", Message: "must not be nil"}
		}
		o.store = s
		return nil
	}
}

// WithStorage opens the store described by cfg when the service is created.
func WithStorage(cfg storage.Config) Option {
	return func(o *options) error {
		o.storage = cfg
		return nil
	}
}

// WithDataPath keeps the catalog as YAML files under dir.
func WithDataPath(dir string) Option {
	return func(o *options) error {
		o.storage = storage.Config{Driver: storage.DriverYAML, DataPath: dir}
		return nil
	}
}

// WithLogger configures the service logger
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		if logger != nil {
			o.logger = logger
		}
		return nil
	}
}

// WithRemote connects the service to the remote catalog API, enabling Sync
// and submitting sales upstream.
func WithRemote(cfg remote.Config, opts ...remote.ClientOption) Option {
	return func(o *options) error {
		if cfg.URL == "" {
			return &errors.ValidationError{Field: "remote.url", Message: "is required"}
		}
		o.remote = &cfg
		o.remoteOpt = opts
		return nil
	}
}

// WithAutoSync configures whether the service syncs with the remote catalog
// in the background
func WithAutoSync(enabled bool) Option {
	return func(o *options) error {
		o.autoSync = enabled
		return nil
	}
}

// WithAutoSyncInterval configures how often to sync with the remote catalog
func WithAutoSyncInterval(interval time.Duration) Option {
	return func(o *options) error {
		o.autoSyncInterval = interval
		return nil
	}
}
