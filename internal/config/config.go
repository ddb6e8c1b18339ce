// Package config reads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every environment-driven setting of the server.
type Config struct {
	TotalAttempts int    `env:"TOTAL_ATTEMPTS" envDefault:"5"`
	Port          string `env:"PORT" envDefault:"3333"`
	ListenAddress string `env:"LISTEN_ADDRESS"`

	DictDir     string `env:"DICT_DIR" envDefault:"dict"`
	DefaultDict string `env:"DEFAULT_DICT" envDefault:"en-us-5"`

	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`

	DBPath    string `env:"DB_PATH"`
	DailySalt string `env:"DAILY_SALT" envDefault:"local_dev_salt"`

	ClientOrigin string `env:"CLIENT_ORIGIN"`
	AssetsDir    string `env:"ASSETS_DIR"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`
}

// Addr is the host:port the HTTP server listens on.
func (c Config) Addr() string { return c.ListenAddress + ":" + c.Port }

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if c.TotalAttempts <= 0 {
		return fmt.Errorf("config: TOTAL_ATTEMPTS must be positive, got %d", c.TotalAttempts)
	}
	if c.Port == "" {
		return errors.New("config: PORT is empty")
	}
	if c.SessionTTL < 0 || c.SweepInterval < 0 {
		return errors.New("config: SESSION_TTL and SWEEP_INTERVAL must not be negative")
	}
	return nil
}
