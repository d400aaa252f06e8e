package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "masq")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if want := Default(dir); !reflect.DeepEqual(cfg, want) {
		t.Fatalf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestDefaultPaths(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "masq")

	cfg := Default(dir)
	if want := filepath.Join(root, "sway", "masq.conf"); cfg.Sway.Path != want {
		t.Fatalf("Sway.Path = %q, want %q", cfg.Sway.Path, want)
	}
	if want := filepath.Join(root, "gtk-3.0", "masq.css"); cfg.GTK3.Path != want {
		t.Fatalf("GTK3.Path = %q, want %q", cfg.GTK3.Path, want)
	}
	if want := filepath.Join(dir, "colors.env"); cfg.KeyValue.Path != want {
		t.Fatalf("KeyValue.Path = %q, want %q", cfg.KeyValue.Path, want)
	}
	if len(cfg.GTK3.Reload) != 0 {
		t.Fatalf("GTK3.Reload = %v, want none", cfg.GTK3.Reload)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "masq")

	cfg := Default(dir)
	cfg.Sway.Reload = []string{}
	cfg.KeyValue.Prefix = "THEME_"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Fatalf("Load() = %+v, want %+v", got, cfg)
	}
	if _, err := os.Stat(Path(dir) + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary file left behind: %v", err)
	}
}

func TestLoadFillsEmptyFields(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(Path(dir), []byte(`{"gtk3": {"path": "/tmp/custom.css"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	def := Default(dir)
	if cfg.GTK3.Path != "/tmp/custom.css" {
		t.Fatalf("GTK3.Path = %q, want /tmp/custom.css", cfg.GTK3.Path)
	}
	if cfg.Sway.Path != def.Sway.Path || !reflect.DeepEqual(cfg.Sway.Reload, def.Sway.Reload) {
		t.Fatalf("Sway = %+v, want defaults %+v", cfg.Sway, def.Sway)
	}
	if cfg.KeyValue.Prefix != "MASQ_" {
		t.Fatalf("KeyValue.Prefix = %q, want MASQ_", cfg.KeyValue.Prefix)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(Path(dir), []byte(`{not json`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("Load() expected error for invalid JSON")
	}
}

func TestSaveRequiresDir(t *testing.T) {
	if err := Save(Config{}); err == nil {
		t.Fatal("Save() expected error for empty dir")
	}
}

func TestDefaultDirFromEnv(t *testing.T) {
	t.Setenv(EnvConfigDir, "/opt/masq")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatalf("DefaultDir() unexpected error: %v", err)
	}
	if dir != "/opt/masq" {
		t.Fatalf("DefaultDir() = %q, want /opt/masq", dir)
	}
}

func TestDefaultDirEmptyEnv(t *testing.T) {
	t.Setenv(EnvConfigDir, "")
	if _, err := DefaultDir(); err == nil {
		t.Fatal("DefaultDir() expected error for empty override")
	}
}
