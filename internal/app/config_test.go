package app_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sigil/internal/app"
	"sigil/internal/domain"
	"sigil/internal/keystore"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(app.EnvHome, "")
	t.Setenv(app.EnvRelay, "")
	t.Setenv(app.EnvLogLevel, "")
	t.Setenv(app.EnvLogFormat, "")
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()

	cfg, err := app.LoadConfig(home)
	require.NoError(t, err)
	want := app.DefaultConfig()
	want.Home = home
	require.Equal(t, want, cfg)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, app.ConfigFilename), []byte(`
relay: wss://file.example
logLevel: info
logFormat: json
timeout: 3s
kdf:
  time: 4
  memory_kib: 1024
`), 0o600))

	cfg, err := app.LoadConfig(home)
	require.NoError(t, err)
	require.Equal(t, "wss://file.example", cfg.RelayURL)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, 3*time.Second, cfg.Timeout)
	require.Equal(t, keystore.Params{Time: 4, MemoryKiB: 1024, Threads: keystore.DefaultParams().Threads}, cfg.KDF)

	t.Setenv(app.EnvRelay, "wss://env.example")
	t.Setenv(app.EnvLogLevel, "debug")
	t.Setenv(app.EnvLogFormat, "console")
	cfg, err = app.LoadConfig(home)
	require.NoError(t, err)
	require.Equal(t, "wss://env.example", cfg.RelayURL)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "console", cfg.LogFormat)
}

func TestLoadConfig_HomePrecedence(t *testing.T) {
	clearEnv(t)
	envHome := t.TempDir()
	flagHome := t.TempDir()
	t.Setenv(app.EnvHome, envHome)

	cfg, err := app.LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, envHome, cfg.Home)

	cfg, err = app.LoadConfig(flagHome)
	require.NoError(t, err)
	require.Equal(t, flagHome, cfg.Home)
}

func TestLoadConfig_Malformed(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, app.ConfigFilename), []byte("relay: [unclosed"), 0o600))

	_, err := app.LoadConfig(home)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewWire(t *testing.T) {
	clearEnv(t)
	cfg, err := app.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.KDF = keystore.Params{Time: 1, MemoryKiB: 64, Threads: 1}

	w, err := app.NewWire(cfg, nil)
	require.NoError(t, err)
	require.Empty(t, w.Accounts.List())

	rc, err := w.RelayClient()
	require.NoError(t, err)
	require.NotNil(t, rc)

	cfg.RelayURL = "http://not-a-websocket"
	w, err = app.NewWire(cfg, nil)
	require.NoError(t, err)
	_, err = w.RelayClient()
	require.ErrorIs(t, err, domain.ErrValidation)
}
