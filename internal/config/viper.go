// Package config reads the catalog settings that several commands share
// from Viper.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/agentstation/techmarket/internal/remote"
	"github.com/agentstation/techmarket/internal/storage"
	"github.com/agentstation/techmarket/pkg/constants"
)

// Keys of the catalog settings.
const (
	KeyStorage        = "storage"
	KeyDataPath       = "data_path"
	KeyDatabase       = "database"
	KeyRemoteURL      = "remote.url"
	KeyRemoteUsername = "remote.username"
	KeyRemotePassword = "remote.password"
	KeyRemoteToken    = "remote.token_file"
	KeyRemoteTimeout  = "remote.timeout"
	KeySyncInterval   = "sync_interval"
)

var envReplacer = strings.NewReplacer(".", "_", "-", "_")

// EnvKey returns the environment variable that overrides key, for example
// REMOTE_URL for remote.url.
func EnvKey(key string) string {
	return strings.ToUpper(envReplacer.Replace(key))
}

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(key string) string {
	// Check OS env directly first
	osValue := os.Getenv(EnvKey(key))
	viperValue := viper.GetString(key)

	// If Viper doesn't have it but OS does, return OS value
	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}

// GetDuration returns a duration setting, or def when it is unset or not
// positive.
func GetDuration(key string, def time.Duration) time.Duration {
	d := viper.GetDuration(key)
	if d <= 0 {
		if v := os.Getenv(EnvKey(key)); v != "" {
			if parsed, err := time.ParseDuration(v); err == nil {
				d = parsed
			}
		}
	}
	if d <= 0 {
		return def
	}
	return d
}

// Storage returns the configured store.
func Storage() storage.Config {
	return storage.Config{
		Driver:   GetString(KeyStorage),
		DataPath: ExpandPath(GetString(KeyDataPath)),
		Database: ExpandPath(GetString(KeyDatabase)),
	}
}

// Remote returns the remote catalog settings. An empty URL means no remote
// catalog is configured.
func Remote() remote.Config {
	return remote.Config{
		URL:       GetString(KeyRemoteURL),
		Username:  GetString(KeyRemoteUsername),
		Password:  GetString(KeyRemotePassword),
		TokenFile: ExpandPath(GetString(KeyRemoteToken)),
		Timeout:   GetDuration(KeyRemoteTimeout, constants.DefaultHTTPTimeout),
	}
}

// SyncInterval returns the interval between scheduled syncs.
func SyncInterval() time.Duration {
	return GetDuration(KeySyncInterval, constants.DefaultSyncInterval)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
