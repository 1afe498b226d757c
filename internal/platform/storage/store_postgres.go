// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/sakura/internal/platform/database/schema"
	pgstore "github.com/taibuivan/sakura/internal/platform/postgres"
)

// Migrations holds the SQL applied by golang-migrate before the postgres
// backend is used.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// Postgres stores entries in the kv_entries table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an already connected pool. The schema must be migrated.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Get implements [Storage].
func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.KVEntry.Value, schema.KVEntry.Table, schema.KVEntry.Key)

	var value []byte
	err := p.pool.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage_postgres_get_failed: key=%s: %w", key, err)
	}
	return value, nil
}

// Set implements [Storage].
func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s) VALUES ($1, $2, now())
		ON CONFLICT (%[2]s) DO UPDATE SET %[3]s = EXCLUDED.%[3]s, %[4]s = now()`,
		schema.KVEntry.Table, schema.KVEntry.Key, schema.KVEntry.Value, schema.KVEntry.UpdatedAt)

	if _, err := p.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("storage_postgres_set_failed: key=%s: %w", key, err)
	}
	return nil
}

// Delete implements [Storage].
func (p *Postgres) Delete(ctx context.Context, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.KVEntry.Table, schema.KVEntry.Key)

	if _, err := p.pool.Exec(ctx, query, key); err != nil {
		return fmt.Errorf("storage_postgres_delete_failed: key=%s: %w", key, err)
	}
	return nil
}

// Keys implements [Storage].
func (p *Postgres) Keys(ctx context.Context, prefix string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %[1]s FROM %[2]s WHERE starts_with(%[1]s, $1) ORDER BY %[1]s`,
		schema.KVEntry.Key, schema.KVEntry.Table)

	rows, err := p.pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("storage_postgres_keys_failed: %w", err)
	}

	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("storage_postgres_keys_failed: %w", err)
	}
	return keys, nil
}

// Ping implements [Storage].
func (p *Postgres) Ping(ctx context.Context) error {
	return pgstore.Ping(ctx, p.pool)
}

// Close implements [Storage].
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
