// Package config loads the host configuration: where the vault lives, where
// plugin settings are stored, logging and live-sync options.
//
// Values come from three layers, later ones winning: built-in defaults, a
// TOML or YAML file, and OPENNOTES_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/opennotes/internal/logging"
	"github.com/dshills/opennotes/internal/vfs"
)

// Config keys.
const (
	KeyVaultDir      = "vault_dir"
	KeySettingsPath  = "settings_path"
	KeyLogLevel      = "log_level"
	KeyLiveSync      = "live_sync"
	KeyNoticeTimeout = "notice_timeout"
)

// EnvPrefix prefixes environment overrides, e.g. OPENNOTES_VAULT_DIR.
const EnvPrefix = "OPENNOTES_"

// ErrInvalid indicates a configuration value of the wrong type or range.
var ErrInvalid = errors.New("invalid configuration")

// Config is the host configuration.
type Config struct {
	// VaultDir is the root that note paths are relative to.
	VaultDir string

	// SettingsPath is the plugin settings file. Defaults to
	// <VaultDir>/.opennotes/data.json.
	SettingsPath string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// LiveSync re-registers commands as settings change.
	LiveSync bool

	// NoticeTimeout is how long notices stay visible.
	NoticeTimeout time.Duration

	// Unknown lists keys that were present but not recognised.
	Unknown []string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		VaultDir:      ".",
		LogLevel:      "info",
		NoticeTimeout: 5 * time.Second,
	}
}

// Level returns the parsed log level.
func (c Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}

// Layer supplies configuration values applied over the file.
type Layer interface {
	Load() map[string]any
}

// Values is a fixed Layer, typically built from command-line flags.
type Values map[string]any

// Load returns v.
func (v Values) Load() map[string]any {
	return v
}

// Load builds the configuration from path (optional) and the process
// environment.
func Load(fsys vfs.VFS, path string) (Config, error) {
	return LoadLayers(fsys, path, NewEnvLoader(EnvPrefix))
}

// LoadLayers builds the configuration from path (optional) followed by
// each layer in order.
func LoadLayers(fsys vfs.VFS, path string, layers ...Layer) (Config, error) {
	cfg := Default()

	if path != "" {
		values, err := NewFileLoader(fsys).Load(path)
		if err != nil {
			return Config{}, err
		}
		if err := cfg.apply(values); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	for _, layer := range layers {
		if layer == nil {
			continue
		}
		if err := cfg.apply(layer.Load()); err != nil {
			return Config{}, fmt.Errorf("%s: %w", layerName(layer), err)
		}
	}

	if err := cfg.finalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func layerName(l Layer) string {
	if _, ok := l.(*EnvLoader); ok {
		return "environment"
	}
	return "overrides"
}

func (c *Config) apply(values map[string]any) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		v := values[key]
		var err error
		switch key {
		case KeyVaultDir:
			c.VaultDir, err = asString(key, v)
		case KeySettingsPath:
			c.SettingsPath, err = asString(key, v)
		case KeyLogLevel:
			c.LogLevel, err = asString(key, v)
		case KeyLiveSync:
			c.LiveSync, err = asBool(key, v)
		case KeyNoticeTimeout:
			c.NoticeTimeout, err = asDuration(key, v)
		default:
			c.Unknown = append(c.Unknown, key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) finalize() error {
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("%w: %s %q (must be debug, info, warn, or error)", ErrInvalid, KeyLogLevel, c.LogLevel)
	}
	if c.NoticeTimeout <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalid, KeyNoticeTimeout)
	}
	if strings.TrimSpace(c.VaultDir) == "" {
		return fmt.Errorf("%w: %s is empty", ErrInvalid, KeyVaultDir)
	}
	if c.SettingsPath == "" {
		c.SettingsPath = filepath.Join(c.VaultDir, ".opennotes", "data.json")
	}
	return nil
}

func asString(key string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalid, key, v)
	}
	return s, nil
}

func asBool(key string, v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, fmt.Errorf("%w: %s must be a boolean, got %q", ErrInvalid, key, b)
		}
		return parsed, nil
	}
	return false, fmt.Errorf("%w: %s must be a boolean, got %T", ErrInvalid, key, v)
}

// asDuration accepts duration strings ("5s") or whole seconds.
func asDuration(key string, v any) (time.Duration, error) {
	switch d := v.(type) {
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			if secs, convErr := strconv.Atoi(d); convErr == nil {
				return time.Duration(secs) * time.Second, nil
			}
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
		}
		return parsed, nil
	case int:
		return time.Duration(d) * time.Second, nil
	case int64:
		return time.Duration(d) * time.Second, nil
	case uint64:
		return time.Duration(d) * time.Second, nil
	case float64:
		return time.Duration(d * float64(time.Second)), nil
	}
	return 0, fmt.Errorf("%w: %s must be a duration, got %T", ErrInvalid, key, v)
}
