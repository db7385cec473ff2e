package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the name of the config file inside the config directory
const FileName = "config.toml"

// Config represents the application configuration
type Config struct {
	Version int        `toml:"version"`
	UI      UISettings `toml:"ui"`
	Data    DataConfig `toml:"data"`
	Log     LogConfig  `toml:"log"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	DoubleClickMS  int    `toml:"double_click_ms"`
	HighlightColor string `toml:"highlight_color"`
	OutlineColor   string `toml:"outline_color"`
	StripeColor    string `toml:"stripe_color"`
	PageSize       int    `toml:"page_size"`
}

// DataConfig points at the start-up data set
type DataConfig struct {
	SeedFile string `toml:"seed_file"`
}

// LogConfig controls the file logger
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// ConfigService handles configuration management
type ConfigService interface {
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	LoadOrCreate(path string) (*Config, error)
}

type configService struct{}

// NewConfigService creates a new config service
func NewConfigService() ConfigService {
	return &configService{}
}

// DefaultPath returns the user-level config file location
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "clubgrid", FileName)
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadOrCreate loads path, writing DefaultConfig there first when the file
// does not exist yet.
func (cs *configService) LoadOrCreate(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		if err := cs.SaveToPath(cfg, path); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return cs.LoadFromPath(path)
}

// Validate rejects values the UI cannot work with
func (c *Config) Validate() error {
	if c.UI.DoubleClickMS <= 0 {
		return fmt.Errorf("ui.double_click_ms must be positive, got %d", c.UI.DoubleClickMS)
	}
	if c.UI.PageSize < 0 {
		return fmt.Errorf("ui.page_size must not be negative, got %d", c.UI.PageSize)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		UI: UISettings{
			DoubleClickMS:  400,
			HighlightColor: "#FFD75F",
			OutlineColor:   "#808080",
			StripeColor:    "#262626",
			PageSize:       0,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
