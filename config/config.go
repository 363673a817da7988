package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/stockroom/inventory/models"
)

// Config holds all configuration for the service, read from the environment.
type Config struct {
	Server ServerConfig
	Store  models.StoreConfig

	LogLevel          string
	LogFormat         string
	CacheTTL          time.Duration
	LowStockThreshold int
}

type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Load reads envFile (if it exists) and then the environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var errs []error
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("HOST", "0.0.0.0"),
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getEnvAsDuration("READ_TIMEOUT", 15*time.Second, &errs),
			WriteTimeout:    getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second, &errs),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second, &errs),
		},
		Store: models.StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", models.DriverPostgres)),
			URL:    os.Getenv("STORE_URL"),
			Key:    os.Getenv("STORE_KEY"),
		},
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		CacheTTL:          getEnvAsDuration("CACHE_TTL", 60*time.Second, &errs),
		LowStockThreshold: getEnvAsInt("LOW_STOCK_THRESHOLD", 10, &errs),
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that required secrets are present and values are sane.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case models.DriverPostgres, models.DriverPQ:
		if c.Store.URL == "" {
			return fmt.Errorf("STORE_URL is required")
		}
		if c.Store.Key == "" {
			return fmt.Errorf("STORE_KEY is required for driver %s", c.Store.Driver)
		}
	case models.DriverSQLite:
		if c.Store.URL == "" {
			return fmt.Errorf("STORE_URL is required")
		}
	default:
		return fmt.Errorf("invalid STORE_DRIVER: %s (must be postgres, pq, or sqlite)", c.Store.Driver)
	}

	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	if c.LowStockThreshold < 0 {
		return fmt.Errorf("LOW_STOCK_THRESHOLD cannot be negative")
	}

	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int, errs *[]error) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %q is not an integer", key, valueStr))
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("90s") or plain seconds ("90").
func getEnvAsDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	*errs = append(*errs, fmt.Errorf("%s: %q is not a duration", key, valueStr))
	return defaultValue
}
