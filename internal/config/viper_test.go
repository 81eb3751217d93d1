package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/techmarket/pkg/constants"
)

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "REMOTE_URL", EnvKey("remote.url"))
	assert.Equal(t, "REMOTE_TOKEN_FILE", EnvKey("remote.token_file"))
	assert.Equal(t, "DATA_PATH", EnvKey("data-path"))
}

func TestGetString(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("REMOTE_USERNAME", "from-env")
	assert.Equal(t, "from-env", GetString(KeyRemoteUsername))

	viper.Set(KeyRemoteUsername, "from-config")
	assert.Equal(t, "from-config", GetString(KeyRemoteUsername))
}

func TestRemote(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg := Remote()
	assert.Empty(t, cfg.URL)
	assert.Equal(t, constants.DefaultHTTPTimeout, cfg.Timeout)

	viper.Set(KeyRemoteURL, "http://catalog.local")
	viper.Set(KeyRemotePassword, "secret")
	viper.Set(KeyRemoteTimeout, "3s")
	t.Setenv("REMOTE_USERNAME", "seller")

	cfg = Remote()
	assert.Equal(t, "http://catalog.local", cfg.URL)
	assert.Equal(t, "seller", cfg.Username)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
}

func TestStorage(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	viper.Set(KeyStorage, "sqlite")
	viper.Set(KeyDataPath, "~/.techmarket")
	viper.Set(KeyDatabase, "catalog.db")

	cfg := Storage()
	assert.Equal(t, "sqlite", cfg.Driver)
	assert.Equal(t, filepath.Join(home, ".techmarket"), cfg.DataPath)
	assert.Equal(t, "catalog.db", cfg.Database)
}

func TestSyncInterval(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	assert.Equal(t, constants.DefaultSyncInterval, SyncInterval())

	t.Setenv("SYNC_INTERVAL", "90s")
	assert.Equal(t, 90*time.Second, SyncInterval())

	viper.Set(KeySyncInterval, "5m")
	assert.Equal(t, 5*time.Minute, SyncInterval())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "data"), ExpandPath("~/data"))
	assert.Equal(t, "/srv/data", ExpandPath("/srv/data"))
	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, "~user/data", ExpandPath("~user/data"))
}
