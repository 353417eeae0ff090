package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/test-data")
	cfg := Default()

	if cfg.Store.Backend != BackendFile {
		t.Errorf("expected file backend, got %q", cfg.Store.Backend)
	}
	if cfg.Store.Path != "/tmp/test-data/schemer/scheme.json" {
		t.Errorf("unexpected store path %q", cfg.Store.Path)
	}
	if cfg.Editor.Locale != "ru" {
		t.Errorf("expected locale ru, got %q", cfg.Editor.Locale)
	}
	if cfg.Server.MaxBodyBytes != 1048576 {
		t.Errorf("expected 1 MiB body limit, got %d", cfg.Server.MaxBodyBytes)
	}
	if d, err := cfg.AutosaveInterval(); err != nil || d != time.Second {
		t.Errorf("autosave = %v, %v", d, err)
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg")
	if dir := ConfigDir(); dir != "/tmp/test-xdg/schemer" {
		t.Errorf("expected /tmp/test-xdg/schemer, got %q", dir)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".config", "schemer")
	if dir := ConfigDir(); dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("expected default addr, got %q", cfg.Server.Addr)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemer", "config.toml")

	cfg := Default()
	cfg.Store.Backend = BackendSQLite
	cfg.Store.Path = "/var/lib/schemer.db"
	cfg.Editor.Autosave = "5s"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if loaded.Store.Backend != BackendSQLite || loaded.Store.Path != "/var/lib/schemer.db" {
		t.Errorf("store = %+v", loaded.Store)
	}
	if d, _ := loaded.AutosaveInterval(); d != 5*time.Second {
		t.Errorf("autosave = %v", d)
	}
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[store]\nbackend = \"file\"\npath = \"a.json\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SCHEMER_STORE", "remote")
	t.Setenv("SCHEMER_STORE_URL", "http://localhost:8080")
	t.Setenv("SCHEMER_LOG", "debug")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Store.Backend != BackendRemote || cfg.Store.URL != "http://localhost:8080" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if level, _ := cfg.LogLevel(); level != slog.LevelDebug {
		t.Errorf("level = %v", level)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{name: "malformed toml", content: "[store\n", errMsg: "parse"},
		{name: "unknown backend", content: "[store]\nbackend = \"s3\"\n", errMsg: "unknown store backend"},
		{name: "remote without url", content: "[store]\nbackend = \"remote\"\n", errMsg: "store.url"},
		{name: "bad autosave", content: "[editor]\nautosave = \"soon\"\n", errMsg: "editor.autosave"},
		{name: "bad level", content: "[log]\nlevel = \"loud\"\n", errMsg: "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFile(path)
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected error containing %q, got %v", tt.errMsg, err)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "debug"

	var buf bytes.Buffer
	logger, closeFn, err := cfg.Logger(&buf)
	if err != nil {
		t.Fatalf("Logger() error = %v", err)
	}
	logger.Debug("hello", "k", 1)
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("expected text output, got %q", buf.String())
	}

	cfg.Log.File = filepath.Join(t.TempDir(), "logs", "schemer.log")
	logger, closeFn, err = cfg.Logger(&buf)
	if err != nil {
		t.Fatalf("Logger() with file error = %v", err)
	}
	logger.Info("to file")
	closeFn()

	data, err := os.ReadFile(cfg.Log.File)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"to file"`) {
		t.Errorf("expected JSON log line, got %q", data)
	}
}

func TestLogger_BadLevel(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	if _, _, err := cfg.Logger(io.Discard); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
