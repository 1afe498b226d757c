// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/sakura/internal/platform/config"
	"github.com/taibuivan/sakura/internal/platform/migration"
	pgstore "github.com/taibuivan/sakura/internal/platform/postgres"
	redisstore "github.com/taibuivan/sakura/internal/platform/redis"
)

// migrationsDir is the directory inside [Migrations].
const migrationsDir = "migrations"

// Open builds the backend selected by cfg.StorageBackend.
//
// The postgres backend applies pending migrations before returning.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Storage, error) {
	logger.Info("storage_opening", slog.String("backend", cfg.StorageBackend))

	switch cfg.StorageBackend {
	case config.BackendMemory:
		return NewMemory(), nil

	case config.BackendFile:
		store, err := NewFile(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.BackendSQLite:
		store, err := NewSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.BackendRedis:
		client, err := redisstore.NewClient(ctx, cfg.RedisURL, logger)
		if err != nil {
			return nil, err
		}
		return NewRedis(client), nil

	case config.BackendPostgres:
		if err := MigratePostgres(cfg.DatabaseURL, logger); err != nil {
			return nil, err
		}
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		return NewPostgres(pool), nil
	}

	return nil, fmt.Errorf("storage: unknown backend %q", cfg.StorageBackend)
}

// MigratePostgres applies the embedded kv_entries migrations.
func MigratePostgres(dsn string, logger *slog.Logger) error {
	return migration.RunUp(dsn, Migrations, migrationsDir, logger)
}
