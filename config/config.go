package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the name of the config file inside the config directory.
const FileName = "masq.config"

// EnvConfigDir overrides the default config directory.
const EnvConfigDir = "MASQ_CONFIG_DIR"

type Config struct {
	// Dir is where the config file lives. It is not serialized.
	Dir string `json:"-"`

	Sway     TargetConfig   `json:"sway"`
	GTK3     TargetConfig   `json:"gtk3"`
	KeyValue KeyValueConfig `json:"env"`
}

// TargetConfig configures a file-writing backend.
type TargetConfig struct {
	Path   string   `json:"path"`
	Reload []string `json:"reload"`
}

// KeyValueConfig configures the key=value backend.
type KeyValueConfig struct {
	TargetConfig
	Prefix string `json:"prefix"`
}

// DefaultDir returns $MASQ_CONFIG_DIR, or masq/ under the user config dir.
func DefaultDir() (string, error) {
	if dir, ok := os.LookupEnv(EnvConfigDir); ok {
		if dir == "" {
			return "", fmt.Errorf("%s must not be empty", EnvConfigDir)
		}
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, "masq"), nil
}

// Default returns the stock configuration. Target files are placed under the
// parent of dir, which for the default dir is the user config directory.
func Default(dir string) Config {
	base := filepath.Dir(filepath.Clean(dir))
	return Config{
		Dir: dir,
		Sway: TargetConfig{
			Path:   filepath.Join(base, "sway", "masq.conf"),
			Reload: []string{"swaymsg", "reload"},
		},
		GTK3: TargetConfig{
			Path: filepath.Join(base, "gtk-3.0", "masq.css"),
		},
		KeyValue: KeyValueConfig{
			TargetConfig: TargetConfig{Path: filepath.Join(dir, "colors.env")},
			Prefix:       "MASQ_",
		},
	}
}

// Path returns the config file location inside dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load reads the config from dir. A missing file yields Default(dir); empty
// fields in the file fall back to their defaults.
func Load(dir string) (Config, error) {
	f, err := os.Open(Path(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(dir), nil
		}
		return Config{}, err
	}
	defer f.Close()

	var cfg Config
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", Path(dir), err)
	}
	cfg.Dir = dir

	def := Default(dir)
	if cfg.Sway.Path == "" {
		cfg.Sway.Path = def.Sway.Path
	}
	if cfg.Sway.Reload == nil {
		cfg.Sway.Reload = def.Sway.Reload
	}
	if cfg.GTK3.Path == "" {
		cfg.GTK3.Path = def.GTK3.Path
	}
	if cfg.KeyValue.Path == "" {
		cfg.KeyValue.Path = def.KeyValue.Path
	}
	if cfg.KeyValue.Prefix == "" {
		cfg.KeyValue.Prefix = def.KeyValue.Prefix
	}

	return cfg, nil
}

// Save writes cfg to its directory through a temporary file.
func Save(cfg Config) error {
	if cfg.Dir == "" {
		return errors.New("config dir not set")
	}
	cfgPath := Path(cfg.Dir)

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return err
	}

	tmp := cfgPath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, cfgPath)
}
