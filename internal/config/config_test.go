package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/opennotes/internal/logging"
	"github.com/dshills/opennotes/internal/vfs"
)

func noEnv() *EnvLoader { return NewEnvLoaderFrom(EnvPrefix, nil) }

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadLayers(vfs.NewMemFS(), "", noEnv())
	if err != nil {
		t.Fatalf("LoadLayers() error = %v", err)
	}

	if cfg.VaultDir != "." || cfg.LogLevel != "info" || cfg.LiveSync {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.NoticeTimeout != 5*time.Second {
		t.Errorf("NoticeTimeout = %v", cfg.NoticeTimeout)
	}
	if cfg.SettingsPath != filepath.Join(".", ".opennotes", "data.json") {
		t.Errorf("SettingsPath = %q", cfg.SettingsPath)
	}
	if cfg.Level() != logging.LevelInfo {
		t.Errorf("Level() = %v", cfg.Level())
	}
}

func TestLoad_TOML(t *testing.T) {
	fsys := vfs.NewMemFS()
	_ = fsys.AddFile("/etc/opennotes.toml", `
vault_dir = "/home/me/vault"
log_level = "debug"
live_sync = true
notice_timeout = "2s"
colour = "blue"
`)

	cfg, err := LoadLayers(fsys, "/etc/opennotes.toml", noEnv())
	if err != nil {
		t.Fatalf("LoadLayers() error = %v", err)
	}
	if cfg.VaultDir != "/home/me/vault" || cfg.LogLevel != "debug" || !cfg.LiveSync {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.NoticeTimeout != 2*time.Second {
		t.Errorf("NoticeTimeout = %v", cfg.NoticeTimeout)
	}
	if cfg.SettingsPath != "/home/me/vault/.opennotes/data.json" {
		t.Errorf("SettingsPath = %q", cfg.SettingsPath)
	}
	if len(cfg.Unknown) != 1 || cfg.Unknown[0] != "colour" {
		t.Errorf("Unknown = %v", cfg.Unknown)
	}
}

func TestLoad_YAML(t *testing.T) {
	fsys := vfs.NewMemFS()
	_ = fsys.AddFile("/cfg/opennotes.yaml", `
vault_dir: /notes
settings_path: /state/notes.json
notice_timeout: 3
`)

	cfg, err := LoadLayers(fsys, "/cfg/opennotes.yaml", noEnv())
	if err != nil {
		t.Fatalf("LoadLayers() error = %v", err)
	}
	if cfg.VaultDir != "/notes" || cfg.SettingsPath != "/state/notes.json" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.NoticeTimeout != 3*time.Second {
		t.Errorf("NoticeTimeout = %v", cfg.NoticeTimeout)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	fsys := vfs.NewMemFS()
	_ = fsys.AddFile("/c.toml", `vault_dir = "/from-file"`)
	env := NewEnvLoaderFrom(EnvPrefix, []string{
		"OPENNOTES_VAULT_DIR=/from-env",
		"OPENNOTES_LIVE_SYNC=true",
		"OTHER_VAR=x",
		"OPENNOTES_=ignored",
	})

	cfg, err := LoadLayers(fsys, "/c.toml", env)
	if err != nil {
		t.Fatalf("LoadLayers() error = %v", err)
	}
	if cfg.VaultDir != "/from-env" || !cfg.LiveSync {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_ValuesOverrideEnv(t *testing.T) {
	env := NewEnvLoaderFrom(EnvPrefix, []string{"OPENNOTES_LOG_LEVEL=debug", "OPENNOTES_VAULT_DIR=/env"})

	cfg, err := LoadLayers(vfs.NewMemFS(), "", env, Values{KeyVaultDir: "/flag"}, nil)
	if err != nil {
		t.Fatalf("LoadLayers() error = %v", err)
	}
	if cfg.VaultDir != "/flag" || cfg.LogLevel != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.SettingsPath != "/flag/.opennotes/data.json" {
		t.Errorf("SettingsPath = %q", cfg.SettingsPath)
	}
}

func TestLoad_Errors(t *testing.T) {
	fsys := vfs.NewMemFS()
	_ = fsys.AddFile("/bad.toml", "vault_dir = ")
	_ = fsys.AddFile("/bad.yaml", "vault_dir: [")
	_ = fsys.AddFile("/c.ini", "x=1")
	_ = fsys.AddFile("/type.toml", "live_sync = 3")
	_ = fsys.AddFile("/level.toml", `log_level = "loud"`)
	_ = fsys.AddFile("/timeout.toml", `notice_timeout = "soon"`)

	var perr *ParseError
	if _, err := LoadLayers(fsys, "/bad.toml", noEnv()); !errors.As(err, &perr) {
		t.Errorf("bad toml error = %v, want ParseError", err)
	}
	if _, err := LoadLayers(fsys, "/bad.yaml", noEnv()); !errors.As(err, &perr) {
		t.Errorf("bad yaml error = %v, want ParseError", err)
	}
	if _, err := LoadLayers(fsys, "/c.ini", noEnv()); err == nil {
		t.Error("expected unsupported format error")
	}
	if _, err := LoadLayers(fsys, "/missing.toml", noEnv()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want ErrNotExist", err)
	}
	for _, p := range []string{"/type.toml", "/level.toml", "/timeout.toml"} {
		if _, err := LoadLayers(fsys, p, noEnv()); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s error = %v, want ErrInvalid", p, err)
		}
	}
}

func TestParseError(t *testing.T) {
	e := &ParseError{Path: "a.toml", Line: 2, Column: 5, Message: "boom"}
	if e.Error() != "parse error in a.toml at line 2, column 5: boom" {
		t.Errorf("Error() = %q", e.Error())
	}
	e = &ParseError{Path: "a.yaml", Message: "boom"}
	if e.Error() != "parse error in a.yaml: boom" {
		t.Errorf("Error() = %q", e.Error())
	}
}
