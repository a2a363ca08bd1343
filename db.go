package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"reef-scout/config"
	"reef-scout/store"
)

// openStore opens the scouting database, creating its directory on first use.
// On Railway the file lives on the mounted volume (see config.Load).
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*store.Store, error) {
	path := cfg.Database.Path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	st, err := store.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	log.Info("opened scouting database", zap.String("path", path))
	return st, nil
}
