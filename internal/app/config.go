package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"sigil/internal/domain"
	"sigil/internal/keystore"
	"sigil/internal/logger"
)

// Environment overrides, applied after config.yaml.
const (
	EnvHome      = "SIGIL_HOME"
	EnvRelay     = "SIGIL_RELAY"
	EnvLogLevel  = "SIGIL_LOG_LEVEL"
	EnvLogFormat = "SIGIL_LOG_FORMAT"
)

// ConfigFilename is the optional settings file inside Home.
const ConfigFilename = "config.yaml"

const (
	DefaultRelayURL = "wss://relay.damus.io"
	DefaultTimeout  = 15 * time.Second
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home      string          // data directory, e.g. $XDG_CONFIG_HOME/sigil
	RelayURL  string          // relay websocket URL, e.g. wss://relay.damus.io
	LogLevel  string          // zap level name
	LogFormat string          // "console" or "json"
	Timeout   time.Duration   // bound on a relay round trip
	KDF       keystore.Params // argon2id cost used when sealing
}

// FileConfig mirrors config.yaml. Zero values leave the defaults alone.
type FileConfig struct {
	Relay     string           `yaml:"relay"`
	LogLevel  string           `yaml:"logLevel"`
	LogFormat string           `yaml:"logFormat"`
	Timeout   time.Duration    `yaml:"timeout"`
	KDF       *keystore.Params `yaml:"kdf"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Home:      defaultHome(),
		RelayURL:  DefaultRelayURL,
		LogLevel:  logger.DefaultLevel,
		LogFormat: logger.FormatConsole,
		Timeout:   DefaultTimeout,
		KDF:       keystore.DefaultParams(),
	}
}

func defaultHome() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "sigil")
	}
	return ".sigil"
}

// LoadConfig resolves the configuration. home, when non-empty, wins over
// SIGIL_HOME and the default; config.yaml is then read from that home and
// the remaining environment variables override it. A missing config.yaml is
// not an error; a malformed one is.
func LoadConfig(home string) (Config, error) {
	cfg := DefaultConfig()
	if v := strings.TrimSpace(os.Getenv(EnvHome)); v != "" {
		cfg.Home = v
	}
	if home != "" {
		cfg.Home = home
	}

	data, err := os.ReadFile(filepath.Join(cfg.Home, ConfigFilename))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("%w: read %s: %v", domain.ErrStorage, ConfigFilename, err)
	default:
		var parsed FileConfig
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return Config{}, fmt.Errorf("%w: parse %s: %v", domain.ErrValidation, ConfigFilename, err)
		}
		Merge(&cfg, parsed)
	}

	ApplyEnvOverrides(&cfg)
	return cfg, nil
}

// Merge copies the non-zero settings of src into dst.
func Merge(dst *Config, src FileConfig) {
	if src.Relay != "" {
		dst.RelayURL = src.Relay
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.LogFormat != "" {
		dst.LogFormat = src.LogFormat
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
	if src.KDF != nil {
		if src.KDF.Time != 0 {
			dst.KDF.Time = src.KDF.Time
		}
		if src.KDF.MemoryKiB != 0 {
			dst.KDF.MemoryKiB = src.KDF.MemoryKiB
		}
		if src.KDF.Threads != 0 {
			dst.KDF.Threads = src.KDF.Threads
		}
	}
}

// ApplyEnvOverrides applies SIGIL_RELAY, SIGIL_LOG_LEVEL and SIGIL_LOG_FORMAT.
func ApplyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvRelay)); v != "" {
		cfg.RelayURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.LogFormat = v
	}
}
