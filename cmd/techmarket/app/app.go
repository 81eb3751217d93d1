// Package app provides the application context and dependency management
// for the techmarket CLI: configuration, logging and the lazily opened
// catalog service.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/techmarket"
	"github.com/agentstation/techmarket/pkg/errors"
)

// App represents the techmarket application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Service instance (lazy-initialized, singleton)
	mu  sync.RWMutex
	svc *techmarket.Service
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Service returns the catalog service, creating it lazily if needed.
// This is thread-safe and ensures only one instance is created.
func (a *App) Service() (*techmarket.Service, error) {
	a.mu.RLock()
	if a.svc != nil {
		svc := a.svc
		a.mu.RUnlock()
		return svc, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.svc != nil {
		return a.svc, nil
	}

	svc, err := techmarket.New(a.serviceOptions()...)
	if err != nil {
		return nil, errors.WrapResource("create", "service", "", err)
	}

	a.svc = svc
	return svc, nil
}

// Shutdown stops background syncing and closes the store.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	svc := a.svc
	a.svc = nil
	a.mu.Unlock()

	if svc == nil {
		return nil
	}
	if err := svc.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close catalog service during shutdown")
		return err
	}
	return nil
}

// serviceOptions constructs service options from the app configuration.
func (a *App) serviceOptions() []techmarket.Option {
	opts := []techmarket.Option{
		techmarket.WithStorage(a.config.Storage),
		techmarket.WithLogger(a.logger),
		techmarket.WithAutoSyncInterval(a.config.SyncInterval),
	}
	if a.config.Remote.URL != "" {
		opts = append(opts, techmarket.WithRemote(a.config.Remote))
	}
	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithService sets a custom service instance (useful for testing).
func WithService(svc *techmarket.Service) Option {
	return func(a *App) error {
		a.svc = svc
		return nil
	}
}
