// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage provides the flat key/value persistence that every store writes
through.

The stores were designed around browser local storage: a single namespace of
string keys holding JSON documents, rewritten whole on every mutation. This
package keeps that contract and lets the process pick exactly one physical
backend at startup.

Backends:

  - Memory: process-local map, used by tests and throwaway runs.
  - File: one JSON document per key inside a directory.
  - SQLite: a single kv_entries table (modernc.org/sqlite via sqlx).
  - Redis: namespaced string keys (go-redis).
  - Postgres: a kv_entries table in a pgx pool, schema managed by golang-migrate.

No backend offers cross-key transactions. Two processes sharing a backend
follow last-write-wins semantics per key.
*/
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by [Storage.Get] when the key has never been written
// or has been deleted.
var ErrNotFound = errors.New("storage: key not found")

// Storage is the key/value contract shared by every backend.
type Storage interface {
	// Get returns the raw value stored under key, or [ErrNotFound].
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists every key starting with prefix, in ascending order.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// # JSON Helpers

// GetJSON decodes the document stored under key into target.
//
// A missing key returns [ErrNotFound]; a malformed document returns a wrapped
// decode error so callers can fall back to an empty value.
func GetJSON(ctx context.Context, store Storage, key string, target any) error {
	raw, err := store.Get(ctx, key)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("storage_decode_failed: key=%s: %w", key, err)
	}

	return nil
}

// SetJSON encodes value and writes it under key.
func SetJSON(ctx context.Context, store Storage, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("storage_encode_failed: key=%s: %w", key, err)
	}

	return store.Set(ctx, key, raw)
}
