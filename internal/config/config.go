// Package config locates the app-data root and reads config.yaml from it.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"codemindmap/internal/domain"
)

const (
	// FileName is the config file under the app-data root
	FileName = "config.yaml"

	BackendSQLite = "sqlite"
	BackendFile   = "file"

	DefaultAwaitTimeout = 30 * time.Second
)

// AppDataRoot returns where settings and link stores live.
// Priority: $CODEMINDMAP_HOME -> $XDG_DATA_HOME/codemindmap -> ~/.local/share/codemindmap
func AppDataRoot() (string, error) {
	if home := os.Getenv("CODEMINDMAP_HOME"); home != "" {
		return home, nil
	}
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "codemindmap"), nil
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(userHome, ".local", "share", "codemindmap"), nil
}

// Config is the contents of config.yaml
type Config struct {
	SettingsBackend string `yaml:"settings_backend"`
	AwaitTimeout    string `yaml:"await_timeout"`
	ExactMatch      bool   `yaml:"exact_match"`
	IgnoreCase      bool   `yaml:"ignore_case"`
	Editor          string `yaml:"editor"`
	EditorURI       string `yaml:"editor_uri"`
	LogLevel        string `yaml:"log_level"`
}

// Default returns the configuration used when no file exists
func Default() Config {
	return Config{
		SettingsBackend: BackendSQLite,
		AwaitTimeout:    DefaultAwaitTimeout.String(),
		LogLevel:        "info",
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field that has a closed set of values
func (c Config) Validate() error {
	switch c.SettingsBackend {
	case BackendSQLite, BackendFile:
	default:
		return fmt.Errorf("settings_backend must be %q or %q, got %q", BackendSQLite, BackendFile, c.SettingsBackend)
	}
	if _, err := c.Await(); err != nil {
		return err
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Await returns how long a save waits for the surface. Zero waits forever.
func (c Config) Await() (time.Duration, error) {
	if strings.TrimSpace(c.AwaitTimeout) == "" {
		return DefaultAwaitTimeout, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(c.AwaitTimeout))
	if err != nil {
		return 0, fmt.Errorf("await_timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("await_timeout must not be negative, got %s", d)
	}
	return d, nil
}

// Match returns the snippet matching options
func (c Config) Match() domain.MatchOptions {
	return domain.MatchOptions{ExactMatch: c.ExactMatch, IgnoreCase: c.IgnoreCase}
}

// URIScheme returns the editor URI scheme, empty when a terminal editor is used
func (c Config) URIScheme() string {
	scheme := strings.TrimSpace(c.EditorURI)
	if strings.EqualFold(scheme, "none") {
		return ""
	}
	return scheme
}

// ParseLevel maps a log_level value to a slog level
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
