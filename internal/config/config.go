// Package config loads and saves blossom's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/blossom/internal/model"

	"github.com/BurntSushi/toml"
)

// Config holds all blossom configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Intake     IntakeConfig     `toml:"intake"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Notify     NotifyConfig     `toml:"notify"`
}

// GeneralConfig holds storage preferences.
type GeneralConfig struct {
	DataDir     string `toml:"data_dir,omitempty"`
	Storage     string `toml:"storage" validate:"oneof=sqlite file memory"`
	ContentFile string `toml:"content_file,omitempty"`
}

// IntakeConfig holds the defaults shown on a fresh gift form.
type IntakeConfig struct {
	DefaultFrequency string `toml:"default_frequency" validate:"required,frequency"`
	DefaultFocusArea string `toml:"default_focus_area" validate:"required,focusarea"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme" validate:"required"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=pretty json"`
	File   string `toml:"file,omitempty"`
}

// DaemonConfig controls the local HTTP service.
type DaemonConfig struct {
	Addr            string `toml:"addr" validate:"required,hostname_port"`
	EventsBuffer    int    `toml:"events_buffer" validate:"min=1,max=10000"`
	PollIntervalSec int    `toml:"poll_interval_sec" validate:"min=2,max=3600"`
}

// NotifyConfig configures the AMQP gift publisher. Empty URL disables it.
type NotifyConfig struct {
	AMQPURL    string `toml:"amqp_url,omitempty" validate:"omitempty,url"`
	Exchange   string `toml:"exchange" validate:"required_with=AMQPURL"`
	RoutingKey string `toml:"routing_key" validate:"required_with=AMQPURL"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Storage: "sqlite",
		},
		Intake: IntakeConfig{
			DefaultFrequency: string(model.Monthly),
			DefaultFocusArea: string(model.CommunityNourishment),
		},
		Appearance: AppearanceConfig{
			Theme: "orange-blossom",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "pretty",
		},
		Daemon: DaemonConfig{
			Addr:            "127.0.0.1:8788",
			EventsBuffer:    200,
			PollIntervalSec: 15,
		},
		Notify: NotifyConfig{
			Exchange:   "blossom",
			RoutingKey: "gifts.added",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "blossom")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "blossom")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultDataDir returns the XDG data directory for the ledger.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "blossom")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "blossom")
}

// StateDir returns the XDG state directory for pid and log files.
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "blossom")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "blossom")
}

// DataDir returns the configured data directory or the default.
func (c Config) DataDir() string {
	if c.General.DataDir != "" {
		return c.General.DataDir
	}
	return DefaultDataDir()
}

// ContentPath returns the content override file location.
func (c Config) ContentPath() string {
	if c.General.ContentFile != "" {
		return c.General.ContentFile
	}
	return filepath.Join(Dir(), "content.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied and the result is validated.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	ApplyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(Dir(), 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
