package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Store backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRemote = "remote"
)

const (
	DefaultAutosave     = time.Second
	DefaultLocale       = "ru"
	DefaultEntityWidth  = 220
	DefaultAddr         = ":8080"
	DefaultStaticDir    = "./front"
	DefaultMaxBodyBytes = 1 << 20
)

// Config holds schemer configuration.
type Config struct {
	Store  StoreConfig  `toml:"store"`
	Editor EditorConfig `toml:"editor"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// StoreConfig selects where the diagram lives.
type StoreConfig struct {
	Backend string `toml:"backend"` // "file", "sqlite", "remote"
	Path    string `toml:"path"`
	URL     string `toml:"url"`
}

// EditorConfig controls the terminal editor.
type EditorConfig struct {
	Autosave     string  `toml:"autosave"`
	Locale       string  `toml:"locale"`
	ParentSource string  `toml:"parent_source"`
	EntityWidth  float64 `toml:"entity_width"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	StaticDir    string `toml:"static_dir"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{Backend: BackendFile, Path: DefaultStorePath()},
		Editor: EditorConfig{
			Autosave:    DefaultAutosave.String(),
			Locale:      DefaultLocale,
			EntityWidth: DefaultEntityWidth,
		},
		Server: ServerConfig{
			Addr:         DefaultAddr,
			StaticDir:    DefaultStaticDir,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
		Log: LogConfig{Level: "info"},
	}
}

// ConfigDir returns the schemer config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "schemer")
}

// Path returns the config file location.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DefaultStorePath returns where the file backend keeps the diagram.
func DefaultStorePath() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "schemer", "scheme.json")
}

// Load reads the config file at Path and applies SCHEMER_* overrides.
// A missing file yields defaults.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the config file at path and applies SCHEMER_* overrides.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SCHEMER_STORE"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("SCHEMER_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("SCHEMER_STORE_URL"); v != "" {
		c.Store.URL = v
	}
	if v := os.Getenv("SCHEMER_LOG"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch c.Store.Backend {
	case BackendFile, BackendSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the %s backend", c.Store.Backend)
		}
	case BackendRemote:
		if c.Store.URL == "" {
			return fmt.Errorf("store.url is required for the remote backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if _, err := c.AutosaveInterval(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// AutosaveInterval parses editor.autosave.
func (c *Config) AutosaveInterval() (time.Duration, error) {
	if c.Editor.Autosave == "" {
		return DefaultAutosave, nil
	}
	d, err := time.ParseDuration(c.Editor.Autosave)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("editor.autosave: invalid duration %q", c.Editor.Autosave)
	}
	return d, nil
}

// LogLevel parses log.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
