// Package constants provides shared constants used throughout the techmarket codebase.
// This includes timeouts, limits, file permissions, and other configuration values
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for requests to the remote catalog
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// FormLoadTimeout bounds the concurrent candidate queries of one edit form
	FormLoadTimeout = 15 * time.Second

	// SyncTimeout is the timeout for a single remote catalog sync pass
	SyncTimeout = 5 * time.Minute

	// DefaultSyncInterval is the default interval between scheduled syncs
	DefaultSyncInterval = 15 * time.Minute

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// ShutdownTimeout is how long the HTTP server waits for in-flight requests
	ShutdownTimeout = 30 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// SecureFilePermissions is for sensitive files like the API token (rw-------)
	SecureFilePermissions = 0600
)

// Limit constants define various limits and capacities
const (
	// MaxConcurrentQueries is the maximum number of listing queries a form runs at once
	MaxConcurrentQueries = 4

	// MaxNameLength is the maximum allowed length for entity names
	MaxNameLength = 256

	// MaxDescriptionLength is the maximum allowed length for descriptions
	MaxDescriptionLength = 4096

	// DefaultPageSize is the default number of items per page for listings
	DefaultPageSize = 100

	// MaxPageSize is the maximum allowed page size for listings
	MaxPageSize = 1000

	// MaxRequestBodySize caps the body of incoming API requests (1 MB)
	MaxRequestBodySize = 1 << 20

	// MaxResponseBodySize caps the body read from the remote catalog (10 MB)
	MaxResponseBodySize = 10 << 20
)

// Cache constants
const (
	// CacheTTL is the default time-to-live for cached listings
	CacheTTL = 5 * time.Minute

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 10 * time.Minute
)

// Default values
const (
	// DefaultCurrency is the currency assumed for devices that do not name one
	DefaultCurrency = "USD"

	// DefaultTokenFile is where the remote catalog token is persisted
	DefaultTokenFile = "apitoken.json"

	// DefaultDataPath is the default directory for the local catalog
	DefaultDataPath = "~/.techmarket"

	// DefaultDatabaseFile is the sqlite file name inside the data path
	DefaultDatabaseFile = "techmarket.db"
)

// Remote catalog endpoints, relative to the configured base URL
const (
	// AuthenticatePath exchanges credentials for a bearer token
	AuthenticatePath = "/authenticate"

	// DevicesPath lists every device of the remote catalog
	DevicesPath = "/catedra/dispositivos"

	// SellPath submits a sale
	SellPath = "/catedra/vender"

	// SalePath fetches one sale; the id is appended
	SalePath = "/catedra/venta/"

	// SalesPath lists the sales made with the current credentials
	SalesPath = "/catedra/ventas"
)

// Format constants
const (
	// TimeFormatISO8601 is the ISO 8601 time format
	TimeFormatISO8601 = time.RFC3339

	// TimeFormatHuman is a human-readable time format
	TimeFormatHuman = "Jan 2, 2006 at 3:04pm MST"
)
