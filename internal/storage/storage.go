// Package storage provides the .shop/ workspace, its key-value backends and
// the persistence gateway for the item collection.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	// shopDir is the name of the workspace directory.
	shopDir = ".shop"
	// dataDir is the subdirectory used by the file backend.
	dataDir = "data"
	// sqliteFile is the database file used by the sqlite backend.
	sqliteFile = "shop.db"
	// configFile is the name of the workspace config file within .shop/.
	configFile = "config.yaml"
	// workspaceVersion is the layout version written by Init.
	workspaceVersion = 1
)

// StorageConfig contains settings stored in .shop/config.yaml.
type StorageConfig struct {
	Version int `yaml:"version"`
}

// Storage provides access to a .shop/ directory.
type Storage struct {
	root string // path to directory containing .shop/
}

// Open returns a Storage for the given directory.
// Returns error if .shop/ does not exist.
func Open(dir string) (*Storage, error) {
	shopPath := filepath.Join(dir, shopDir)
	info, err := os.Stat(shopPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf(".shop/ directory not found in %s (run 'shop init')", dir)
		}
		return nil, fmt.Errorf("failed to access .shop/: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf(".shop is not a directory")
	}

	return &Storage{root: dir}, nil
}

// Init creates the .shop/ directory with an empty data directory.
// Returns error if .shop/ already exists.
func Init(dir string) (*Storage, error) {
	shopPath := filepath.Join(dir, shopDir)

	if _, err := os.Stat(shopPath); err == nil {
		return nil, fmt.Errorf(".shop/ directory already exists in %s", dir)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to check for .shop/: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(shopPath, dataDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create .shop/data/: %w", err)
	}

	cfg := StorageConfig{Version: workspaceVersion}
	cfgData, err := yaml.Marshal(&cfg)
	if err != nil {
		os.RemoveAll(shopPath)
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(shopPath, configFile), cfgData, 0644); err != nil {
		os.RemoveAll(shopPath)
		return nil, fmt.Errorf("failed to write config.yaml: %w", err)
	}

	return &Storage{root: dir}, nil
}

// Root returns the root directory containing .shop/.
func (s *Storage) Root() string {
	return s.root
}

// ShopPath returns the path to the .shop/ directory.
func (s *Storage) ShopPath() string {
	return filepath.Join(s.root, shopDir)
}

// DataPath returns the directory used by the file backend.
func (s *Storage) DataPath() string {
	return filepath.Join(s.root, shopDir, dataDir)
}

// DatabasePath returns the database file used by the sqlite backend.
func (s *Storage) DatabasePath() string {
	return filepath.Join(s.root, shopDir, sqliteFile)
}

// OpenBackend opens the key-value backend selected by cfg.
// The caller owns the returned backend and must Close it.
func (s *Storage) OpenBackend(ctx context.Context, cfg *Config, logger *zap.Logger) (Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		b   Backend
		err error
	)
	switch cfg.Backend {
	case BackendFile, "":
		b, err = NewFileBackend(s.DataPath())
	case BackendSQLite:
		b, err = NewSQLiteBackend(ctx, s.DatabasePath())
	case BackendRedis:
		b, err = NewRedisBackend(ctx, cfg.RedisURL)
	default:
		return nil, fmt.Errorf("unknown backend %q (expected %s, %s or %s)", cfg.Backend, BackendFile, BackendSQLite, BackendRedis)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("opened storage backend", zap.String("backend", cfg.Backend), zap.String("root", s.root))
	return b, nil
}
