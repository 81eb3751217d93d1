package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/techmarket/internal/config"
	"github.com/agentstation/techmarket/internal/remote"
	"github.com/agentstation/techmarket/internal/server"
	"github.com/agentstation/techmarket/internal/storage"
	"github.com/agentstation/techmarket/pkg/constants"
)

// Setting keys read only by the CLI.
const (
	keyAutoSync = "auto_sync"

	keyServerHost        = "server.host"
	keyServerPort        = "server.port"
	keyServerCacheTTL    = "server.cache_ttl"
	keyServerCORSOrigins = "server.cors_origins"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Catalog configuration
	Storage      storage.Config
	Remote       remote.Config
	SyncInterval time.Duration
	AutoSync     bool
	Server       server.Config

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.techmarket.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults()

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName(".techmarket")

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	return fromViper(), nil
}

// ReadConfigFile loads the given config file on top of the current settings.
func ReadConfigFile(path string) (*Config, error) {
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}
	return fromViper(), nil
}

func setDefaults() {
	defaults := server.DefaultConfig()
	viper.SetDefault(config.KeyDataPath, constants.DefaultDataPath)
	viper.SetDefault(keyServerHost, defaults.Host)
	viper.SetDefault(keyServerPort, defaults.Port)
	viper.SetDefault(keyServerCacheTTL, defaults.CacheTTL)
}

func fromViper() *Config {
	srv := server.DefaultConfig()
	srv.Host = viper.GetString(keyServerHost)
	srv.Port = viper.GetInt(keyServerPort)
	srv.CacheTTL = viper.GetDuration(keyServerCacheTTL)
	if origins := viper.GetStringSlice(keyServerCORSOrigins); len(origins) > 0 {
		srv.CORSEnabled = true
		srv.CORSOrigins = origins
	}

	return &Config{
		Verbose:    viper.GetBool("verbose"),
		Quiet:      viper.GetBool("quiet"),
		NoColor:    viper.GetBool("no-color"),
		Format:     viper.GetString("format"),
		ConfigFile: viper.ConfigFileUsed(),

		Storage:      config.Storage(),
		Remote:       config.Remote(),
		SyncInterval: config.SyncInterval(),
		AutoSync:     viper.GetBool(keyAutoSync),
		Server:       srv,

		// An empty level lets -v and -q decide
		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		// godotenv.Load never overrides variables already set, so the
		// more specific file goes first.
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
