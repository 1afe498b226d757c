// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sakura/internal/platform/config"
)

/*
TestLoad_Defaults verifies that only SESSION_SECRET is mandatory.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, config.BackendFile, cfg.StorageBackend)
	assert.Equal(t, time.Duration(0), cfg.AuthLatency)
	assert.True(t, cfg.IsDevelopment())
}

/*
TestLoad_MissingSecret ensures the required tag is enforced.
*/
func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

/*
TestValidate_Backends checks backend-specific requirements.
*/
func TestValidate_Backends(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{"memory", config.Config{StorageBackend: config.BackendMemory}, false},
		{"sqlite", config.Config{StorageBackend: config.BackendSQLite}, false},
		{"redis_without_url", config.Config{StorageBackend: config.BackendRedis}, true},
		{"redis_with_url", config.Config{StorageBackend: config.BackendRedis, RedisURL: "redis://localhost:6379/0"}, false},
		{"postgres_without_dsn", config.Config{StorageBackend: config.BackendPostgres}, true},
		{"unknown", config.Config{StorageBackend: "floppy"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
