// Copyright (c) 2026 Khatmah. All rights reserved.
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
  - DI-Friendly: Passed to core components (DB, Redis, Badger) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Local Cache Drivers

const (
	// CacheDriverRedis keeps the fast tier in the shared Redis instance.
	CacheDriverRedis = "redis"

	// CacheDriverBadger keeps the fast tier in an embedded Badger database on local disk.
	CacheDriverBadger = "badger"
)

// # Configuration Schema

// Database is the durable tier subset. Ops tooling that only touches
// PostgreSQL loads it on its own with [LoadDatabase].
type Database struct {

	// Relational Database (PostgreSQL), the durable tier
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`
}

// Signing locates the RS256 key pair. The server only verifies tokens; the
// private key is needed by tooling that issues them.
type Signing struct {
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`
}

// Config holds all runtime configuration for the Khatmah API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	Database

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// LocalCacheDriver selects the fast tier backing store ("redis" or "badger").
	LocalCacheDriver string `env:"LOCAL_CACHE_DRIVER" envDefault:"redis"`

	// BadgerPath is the data directory used when LocalCacheDriver is "badger".
	BadgerPath string `env:"BADGER_PATH" envDefault:"./data/cache"`

	// DurableWriteTimeout bounds a single write-behind call against PostgreSQL.
	DurableWriteTimeout time.Duration `env:"DURABLE_WRITE_TIMEOUT" envDefault:"10s"`

	// Content provider (paginated text API)
	ContentProviderURL     string  `env:"CONTENT_PROVIDER_URL"     envDefault:"https://api.alquran.cloud/v1"`
	ContentProviderEdition string  `env:"CONTENT_PROVIDER_EDITION" envDefault:"quran-uthmani"`
	ContentProviderRPS     float64 `env:"CONTENT_PROVIDER_RPS"     envDefault:"5"`

	Signing

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
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

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDatabase parses only the PostgreSQL settings.
func LoadDatabase() (*Database, error) {
	cfg := &Database{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	return cfg, nil
}

// LoadSigning parses only the key pair settings.
func LoadSigning() (*Signing, error) {
	cfg := &Signing{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	return cfg, nil
}

// validate rejects combinations the env tags cannot express.
func (c *Config) validate() error {
	switch c.LocalCacheDriver {
	case CacheDriverRedis, CacheDriverBadger:
	default:
		return fmt.Errorf("config: unknown LOCAL_CACHE_DRIVER %q", c.LocalCacheDriver)
	}

	if c.DurableWriteTimeout <= 0 {
		return fmt.Errorf("config: DURABLE_WRITE_TIMEOUT must be positive")
	}

	if c.ContentProviderRPS <= 0 {
		return fmt.Errorf("config: CONTENT_PROVIDER_RPS must be positive")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
