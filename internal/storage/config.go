package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// userConfigFile is the name of the user configuration file (sibling to .shop/).
	userConfigFile = ".shopconfig.yaml"

	// Backend names accepted in the backend setting.
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"

	// Default configuration values
	DefaultBackend         = BackendFile
	DefaultKey             = "products"
	DefaultRedisURL        = "redis://localhost:6379/0"
	DefaultLocale          = "en"
	DefaultSort            = ""
	DefaultDefaultQuantity = 1
	DefaultConfirm         = true
)

// Config represents user configuration from .shopconfig.yaml.
// This file is user-managed and never written by shop.
type Config struct {
	// Backend selects where the list is stored: file, sqlite or redis.
	Backend string `yaml:"backend"`

	// Key is the storage key holding the serialized list.
	Key string `yaml:"key"`

	// RedisURL is used when Backend is redis.
	RedisURL string `yaml:"redis_url"`

	// Locale is the BCP 47 tag used to sort item names.
	Locale string `yaml:"locale"`

	// DefaultSort is the sort key used by `shop list` when --sort is not given.
	DefaultSort string `yaml:"default_sort"`

	// DefaultQuantity is used by `shop add` when no quantity is given.
	DefaultQuantity int `yaml:"default_quantity"`

	// Confirm asks before destructive commands (rm, clear).
	Confirm bool `yaml:"confirm"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Backend:         DefaultBackend,
		Key:             DefaultKey,
		RedisURL:        DefaultRedisURL,
		Locale:          DefaultLocale,
		DefaultSort:     DefaultSort,
		DefaultQuantity: DefaultDefaultQuantity,
		Confirm:         DefaultConfirm,
	}
}

// LoadConfig loads .shopconfig.yaml if it exists, otherwise returns defaults.
// The config file is a sibling to .shop/ (in the same directory).
// Partial config files are merged with defaults.
func (s *Storage) LoadConfig() (*Config, error) {
	configPath := filepath.Join(s.root, userConfigFile)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", userConfigFile, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", userConfigFile, err)
	}

	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}
	if err := ValidateKey(cfg.Key); err != nil {
		return nil, fmt.Errorf("invalid key in %s: %w", userConfigFile, err)
	}
	if cfg.DefaultQuantity < 1 {
		return nil, fmt.Errorf("invalid default_quantity %d in %s: must be at least 1", cfg.DefaultQuantity, userConfigFile)
	}

	return cfg, nil
}

// ConfigPath returns the path to the user config file.
func (s *Storage) ConfigPath() string {
	return filepath.Join(s.root, userConfigFile)
}
