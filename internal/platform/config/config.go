// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (storage, stores) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Storage Backends

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// # Configuration Schema

// Config holds all runtime configuration for the Sakura API server and CLI.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// StorageBackend selects the single key/value backend behind every store.
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"file"`

	// DataDir is the directory used by the file backend.
	DataDir string `env:"DATA_DIR" envDefault:"./data/storage"`

	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `env:"SQLITE_PATH" envDefault:"./data/sakura.db"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL"`

	// SessionSecret signs the persisted session token.
	SessionSecret string `env:"SESSION_SECRET,required,notEmpty"`

	// OwnerEmail is granted the admin role when it registers.
	OwnerEmail string `env:"OWNER_EMAIL" envDefault:"owner@sakura.local"`

	// AuthLatency simulates network delay on login and registration.
	AuthLatency time.Duration `env:"AUTH_LATENCY" envDefault:"0s"`

	// BcryptCost is the work factor for password hashing.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	// Cross-Origin Resource Sharing
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field rules that struct tags cannot express.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory, BackendFile, BackendSQLite:
		return nil
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config: REDIS_URL is required for the redis backend")
		}
		return nil
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for the postgres backend")
		}
		return nil
	}
	return fmt.Errorf("config: unknown STORAGE_BACKEND %q", c.StorageBackend)
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins lists the origins accepted by CORS outside development.
func (c *Config) AllowedOrigins() []string {
	origins := []string{"http://localhost:3000"}
	for _, origin := range c.ExtraOrigins {
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
