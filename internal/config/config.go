// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP Server
	Port            int
	ShutdownTimeout time.Duration

	// Database
	DBPath string

	// Logging
	LogLevel string

	// AMQP; an empty URL disables event publishing
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string
}

// Load reads the configuration from the environment. Variables found in the
// given .env files (default ".env") are applied first without overriding
// values that are already set; missing files are ignored.
func Load(envFiles ...string) *Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Failed to read env file", "file", f, "error", err)
		}
	}

	return &Config{
		Port:            getEnvInt("PORT", 8080),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		DBPath:          getEnv("DB_PATH", "./data/ledger.db"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		AMQPURL:         getEnv("AMQP_URL", ""),
		AMQPExchange:    getEnv("AMQP_EXCHANGE", "settleup"),
		AMQPRoutingKey:  getEnv("AMQP_ROUTING_KEY", "ledger.changed"),
	}
}

// Validate returns an error listing every invalid setting.
func (c *Config) Validate() error {
	var problems []string

	if c.Port < 1 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.Port))
	}
	if c.ShutdownTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("invalid shutdown timeout %s: must be positive", c.ShutdownTimeout))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		problems = append(problems, "database path is required")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level %q: must be debug, info, warn or error", c.LogLevel))
	}
	if c.AMQPURL != "" {
		if !strings.HasPrefix(c.AMQPURL, "amqp://") && !strings.HasPrefix(c.AMQPURL, "amqps://") {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL %q: must start with amqp:// or amqps://", c.AMQPURL))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange is required when AMQP_URL is set")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		// Keep the bad value visible to Validate.
		return -1
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return -1
	}
	return d
}
