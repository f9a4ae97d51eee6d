// ABOUTME: Calories configuration management with backend selection.
// ABOUTME: Loads settings through viper and builds the byte store and logger they describe.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harperreed/calories/internal/bytestore"
	"github.com/spf13/viper"
)

// Backend names accepted in Config.Backend.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendCharm  = "charm"
	BackendMemory = "memory"
)

// CharmDBName is the Charm KV database used by the charm backend.
const CharmDBName = "calories"

// Config stores calories tool configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default), "badger",
	// "charm", or "memory".
	Backend string `json:"backend,omitempty" mapstructure:"backend"`

	// DataDir is the root directory for local backends.
	// SQLite puts calories.db here, badger uses a badger/ folder.
	// Supports ~ expansion. Defaults to ~/.local/share/calories.
	DataDir string `json:"data_dir,omitempty" mapstructure:"data_dir"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `json:"log_level,omitempty" mapstructure:"log_level"`

	// CharmHost overrides the Charm server for the charm backend.
	CharmHost string `json:"charm_host,omitempty" mapstructure:"charm_host"`

	// AutoSync pushes to Charm Cloud after every write.
	AutoSync bool `json:"auto_sync,omitempty" mapstructure:"auto_sync"`
}

var configKeys = []string{"backend", "data_dir", "log_level", "charm_host", "auto_sync"}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return DefaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// DefaultDataDir returns $XDG_DATA_HOME/calories.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "calories")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenByteStore opens the byte store for the configured backend.
func (c *Config) OpenByteStore(logger *log.Logger) (bytestore.Store, error) {
	dataDir := c.GetDataDir()

	switch backend := c.GetBackend(); backend {
	case BackendSQLite:
		return bytestore.OpenSQLite(filepath.Join(dataDir, "calories.db"))
	case BackendBadger:
		return bytestore.OpenBadger(filepath.Join(dataDir, "badger"), logger)
	case BackendCharm:
		return bytestore.OpenCharm(bytestore.CharmOptions{
			Name:     CharmDBName,
			Host:     c.CharmHost,
			AutoSync: c.AutoSync,
		})
	case BackendMemory:
		return bytestore.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// NewLogger returns a stderr logger at the configured level.
func (c *Config) NewLogger() *log.Logger {
	return c.newLogger(os.Stderr)
}

func (c *Config) newLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix: "calories",
		Level:  parseLevel(c.LogLevel),
	})
}

func parseLevel(s string) log.Level {
	switch strings.ToLower(s) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "calories", "config.json")
}

// Load reads config from disk. CALORIES_* environment variables override
// values from the file; a missing file yields an empty config.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(GetConfigPath())
	v.SetConfigType("json")
	v.SetEnvPrefix("CALORIES")
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
