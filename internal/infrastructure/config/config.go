package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds the runtime settings of the server. Every field can be set from the
// environment; the defaults suit a local run.
type Config struct {
	HTTPPort         string        `env:"HTTP_PORT,default=8080"`
	DataDir          string        `env:"DATA_DIR,default=./data"`
	LogLevel         string        `env:"LOG_LEVEL,default=INFO"`
	BadgerSyncWrites bool          `env:"BADGER_SYNC_WRITES,default=true"`
	AccountCacheTTL  time.Duration `env:"ACCOUNT_CACHE_TTL,default=5m"`
	CacheCleanup     time.Duration `env:"ACCOUNT_CACHE_CLEANUP_INTERVAL,default=1m"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	ReadTimeout      time.Duration `env:"READ_TIMEOUT,default=30s"`
	WriteTimeout     time.Duration `env:"WRITE_TIMEOUT,default=30s"`
	IdleTimeout      time.Duration `env:"IDLE_TIMEOUT,default=10s"`
}

// Load reads the configuration from the process environment
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads the configuration from the given lookuper
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &cfg, lookuper); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if cfg.HTTPPort == "" {
		return nil, fmt.Errorf("HTTP_PORT must not be empty")
	}

	return &cfg, nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.HTTPPort
}
