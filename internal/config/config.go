package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Ledger storage backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config holds all configuration for the engine binaries
type Config struct {
	Redis  RedisConfig  `envPrefix:"REDIS_"`
	SQLite SQLiteConfig `envPrefix:"SQLITE_"`
	Ledger LedgerConfig `envPrefix:"LEDGER_"`
	Rules  RulesConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	URL      string `env:"URL"`
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// SQLiteConfig holds the path of the sqlite ledger database
type SQLiteConfig struct {
	Path string `env:"PATH" envDefault:"ledger.db"`
}

// LedgerConfig selects where cooldown and charge entries live
type LedgerConfig struct {
	Backend string `env:"BACKEND" envDefault:"memory"`
}

// RulesConfig holds the game-rule knobs the core needs
type RulesConfig struct {
	// RoundDuration converts combat-round cooldowns into wall-clock time.
	RoundDuration time.Duration `env:"COMBAT_ROUND_DURATION" envDefault:"3s"`

	// HomeArea is the area whose origin is the recall destination.
	HomeArea string `env:"HOME_AREA" envDefault:"overworld"`

	// DayLength is the length of one in-game day for charge resets.
	DayLength time.Duration `env:"DAY_LENGTH" envDefault:"24h"`

	// DayBoundaryOffset shifts the reset instant away from the day-length grid.
	DayBoundaryOffset time.Duration `env:"DAY_BOUNDARY_OFFSET" envDefault:"0s"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints env tags cannot express
func (c *Config) Validate() error {
	switch c.Ledger.Backend {
	case BackendMemory, BackendRedis, BackendSQLite:
	default:
		return fmt.Errorf("LEDGER_BACKEND must be one of memory, redis, sqlite (got %q)", c.Ledger.Backend)
	}
	if c.Rules.RoundDuration <= 0 {
		return fmt.Errorf("COMBAT_ROUND_DURATION must be positive")
	}
	if c.Rules.DayLength <= 0 {
		return fmt.Errorf("DAY_LENGTH must be positive")
	}
	if c.Rules.DayBoundaryOffset < 0 || c.Rules.DayBoundaryOffset >= c.Rules.DayLength {
		return fmt.Errorf("DAY_BOUNDARY_OFFSET must be within [0, DAY_LENGTH)")
	}
	if c.Rules.HomeArea == "" {
		return fmt.Errorf("HOME_AREA is required")
	}
	return nil
}
