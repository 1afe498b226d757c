// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/sakura/internal/platform/constants"
	redisstore "github.com/taibuivan/sakura/internal/platform/redis"
)

// scanBatch is the COUNT hint passed to SCAN.
const scanBatch = 200

// globEscaper escapes the SCAN MATCH metacharacters.
var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// Redis stores entries as plain string keys under a shared prefix.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps an already connected client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client, prefix: constants.RedisPrefixStorage}
}

// Get implements [Storage].
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage_redis_get_failed: key=%s: %w", key, err)
	}
	return value, nil
}

// Set implements [Storage].
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("storage_redis_set_failed: key=%s: %w", key, err)
	}
	return nil
}

// Delete implements [Storage].
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("storage_redis_delete_failed: key=%s: %w", key, err)
	}
	return nil
}

// Keys implements [Storage].
func (r *Redis) Keys(ctx context.Context, prefix string) ([]string, error) {
	pattern := globEscaper.Replace(r.prefix+prefix) + "*"

	var keys []string
	iter := r.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), r.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("storage_redis_keys_failed: %w", err)
	}

	sort.Strings(keys)
	return keys, nil
}

// Ping implements [Storage].
func (r *Redis) Ping(ctx context.Context) error {
	return redisstore.Ping(ctx, r.client)
}

// Close implements [Storage].
func (r *Redis) Close() error {
	return r.client.Close()
}
