// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // register "sqlite" driver

	"github.com/taibuivan/sakura/internal/platform/database/schema"
)

// SQLite stores entries in a single table of an embedded SQLite database.
type SQLite struct {
	db *sqlx.DB
}

// NewSQLite opens (or creates) the database at path and applies the schema.
func NewSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: create sqlite dir: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite %q: %w", path, err)
	}

	// SQLite serialises writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: configure sqlite: %w", err)
	}

	createTable := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    %s TEXT PRIMARY KEY,
    %s BLOB NOT NULL,
    %s INTEGER NOT NULL
);`, schema.KVEntry.Table, schema.KVEntry.Key, schema.KVEntry.Value, schema.KVEntry.UpdatedAt)

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: create sqlite schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Get implements [Storage].
func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ?`,
		schema.KVEntry.Value, schema.KVEntry.Table, schema.KVEntry.Key)

	var value []byte
	err := s.db.GetContext(ctx, &value, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage_sqlite_get_failed: key=%s: %w", key, err)
	}
	return value, nil
}

// Set implements [Storage].
func (s *SQLite) Set(ctx context.Context, key string, value []byte) error {
	query := fmt.Sprintf(`
INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s) VALUES (?, ?, ?)
ON CONFLICT(%[2]s) DO UPDATE SET %[3]s = excluded.%[3]s, %[4]s = excluded.%[4]s`,
		schema.KVEntry.Table, schema.KVEntry.Key, schema.KVEntry.Value, schema.KVEntry.UpdatedAt)

	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("storage_sqlite_set_failed: key=%s: %w", key, err)
	}
	return nil
}

// Delete implements [Storage].
func (s *SQLite) Delete(ctx context.Context, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, schema.KVEntry.Table, schema.KVEntry.Key)

	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("storage_sqlite_delete_failed: key=%s: %w", key, err)
	}
	return nil
}

// Keys implements [Storage].
func (s *SQLite) Keys(ctx context.Context, prefix string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %[1]s FROM %[2]s WHERE substr(%[1]s, 1, ?) = ? ORDER BY %[1]s`,
		schema.KVEntry.Key, schema.KVEntry.Table)

	keys := []string{}
	if err := s.db.SelectContext(ctx, &keys, query, len(prefix), prefix); err != nil {
		return nil, fmt.Errorf("storage_sqlite_keys_failed: %w", err)
	}
	return keys, nil
}

// Ping implements [Storage].
func (s *SQLite) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("storage: sqlite ping failed: %w", err)
	}
	return nil
}

// Close implements [Storage].
func (s *SQLite) Close() error {
	return s.db.Close()
}
