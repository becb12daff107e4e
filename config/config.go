// Package config holds the environment configuration of the POS engines.
package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config selects the durable store, the persisted encoding and the store
// keys of the cart and print collections.
type Config struct {
	StoreDriver string `env:"POS_STORE_DRIVER" envDefault:"sqlite"`
	SQLitePath  string `env:"POS_SQLITE_PATH" envDefault:"pos.db"`
	RedisAddr   string `env:"POS_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPrefix string `env:"POS_REDIS_PREFIX" envDefault:"pos:"`
	Codec       string `env:"POS_CODEC" envDefault:"json"`
	CartKey     string `env:"POS_CART_KEY" envDefault:"cart"`
	PrintKey    string `env:"POS_PRINT_KEY" envDefault:"print"`
	LogMode     string `env:"POS_LOG_MODE" envDefault:"development"`
	LogLevel    string `env:"POS_LOG_LEVEL" envDefault:"info"`
	TraceStdout bool   `env:"POS_TRACE_STDOUT" envDefault:"false"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown drivers and codecs, and cart and print keys that
// would share one stored collection.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.StoreDriver) {
	case DriverMemory:
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			errs = append(errs, errors.New("POS_SQLITE_PATH is required for the sqlite driver"))
		}
	case DriverRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			errs = append(errs, errors.New("POS_REDIS_ADDR is required for the redis driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.StoreDriver))
	}
	switch strings.ToLower(c.Codec) {
	case "json", "proto":
	default:
		errs = append(errs, fmt.Errorf("unknown codec %q", c.Codec))
	}
	if strings.TrimSpace(c.CartKey) == "" || strings.TrimSpace(c.PrintKey) == "" {
		errs = append(errs, errors.New("cart and print keys are required"))
	} else if c.CartKey == c.PrintKey {
		errs = append(errs, fmt.Errorf("cart and print share store key %q", c.CartKey))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
