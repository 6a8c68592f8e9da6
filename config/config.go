// ABOUTME: Runtime configuration loaded from XDG paths, a .env file, and the environment
// ABOUTME: Environment variables override the JSON file, which overrides defaults
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

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const appName = "crmcore"

type Config struct {
	DBPath             string `json:"db_path,omitempty"`
	IDScheme           string `json:"id_scheme,omitempty"`
	LogLevel           string `json:"log_level,omitempty"`
	GoogleClientID     string `json:"google_client_id,omitempty"`
	GoogleClientSecret string `json:"google_client_secret,omitempty"`
}

// ConfigDir returns the XDG-compliant configuration directory.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// DefaultDBPath returns the XDG-compliant database location.
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, appName, "crm.db")
}

func defaults() *Config {
	return &Config{
		DBPath:   DefaultDBPath(),
		IDScheme: "uuid",
		LogLevel: "info",
	}
}

// LoadEnvFile loads KEY=value pairs into the process environment.
// A missing file is not an error; variables already set win.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load reads the config file at path (ConfigPath when empty) and applies
// environment overrides:
// - CRM_DB_PATH
// - CRM_ID_SCHEME
// - CRM_LOG_LEVEL
// - GOOGLE_CLIENT_ID
// - GOOGLE_CLIENT_SECRET.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := defaults()

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer func() { _ = f.Close() }()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CRM_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CRM_ID_SCHEME"); v != "" {
		cfg.IDScheme = v
	}
	if v := os.Getenv("CRM_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		cfg.GoogleClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		cfg.GoogleClientSecret = v
	}
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.IDScheme) {
	case "uuid", "ulid":
	default:
		return fmt.Errorf("invalid id_scheme %q (expected uuid or ulid)", c.IDScheme)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	if c.DBPath == "" {
		return errors.New("db_path must not be empty")
	}
	return nil
}

// Save writes the config file with owner-only permissions.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Logger builds the structured logger for the configured level.
func (c *Config) Logger(w io.Writer) *log.Logger {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
	})
}
