// Package config loads process configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"airdrop-tracker/internal/heuristic"
)

// Storage backend names
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config holds all configuration for the tracker.
type Config struct {
	LogLevel string

	HTTP       HTTPConfig
	Storage    StorageConfig
	ClickHouse ClickHouseConfig
	Kafka      KafkaConfig
	Airdrop    AirdropConfig
	Snapshot   SnapshotConfig
}

// HTTPConfig holds the API server configuration.
type HTTPConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StorageConfig selects the primary store backend.
type StorageConfig struct {
	Backend     string
	PostgresDSN string
	SQLitePath  string
}

// ClickHouseConfig holds the stats-history warehouse configuration.
// When disabled, history snapshots go to the primary backend.
type ClickHouseConfig struct {
	Enabled  bool
	Addr     string
	Database string
	Username string
	Password string
}

// KafkaConfig holds event publishing configuration. When disabled,
// events go to the structured log.
type KafkaConfig struct {
	Enabled       bool
	BrokerAddress string
	Topic         string
}

// AirdropConfig pins the rule used to count potential airdrops.
type AirdropConfig struct {
	RuleID string
}

// SnapshotConfig controls the periodic stats snapshots the server records
// into the history store. An interval of zero disables the ticker.
type SnapshotConfig struct {
	Interval time.Duration
}

// DSN renders the connection string the ClickHouse driver expects.
func (c ClickHouseConfig) DSN() string {
	return fmt.Sprintf("clickhouse://%s:%s@%s/%s", c.Username, c.Password, c.Addr, c.Database)
}

// Load loads configuration from environment variables. A .env file is
// honored when present.
func Load() (*Config, error) {
	// Not fatal, env vars might be set externally
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTP: HTTPConfig{
			Addr:         getEnv("HTTP_ADDR", ":8080"),
			ReadTimeout:  time.Duration(getEnvAsInt("HTTP_READ_TIMEOUT", 15)) * time.Second,
			WriteTimeout: time.Duration(getEnvAsInt("HTTP_WRITE_TIMEOUT", 15)) * time.Second,
		},
		Storage: StorageConfig{
			Backend:     getEnv("STORAGE_BACKEND", BackendMemory),
			PostgresDSN: getEnv("POSTGRES_DSN", ""),
			SQLitePath:  getEnv("SQLITE_PATH", "airdrop-tracker.db"),
		},
		ClickHouse: ClickHouseConfig{
			Enabled:  getEnvAsBool("CLICKHOUSE_ENABLED", false),
			Addr:     getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
			Database: getEnv("CLICKHOUSE_DATABASE", "default"),
			Username: getEnv("CLICKHOUSE_USERNAME", "default"),
			Password: getEnv("CLICKHOUSE_PASSWORD", ""),
		},
		Kafka: KafkaConfig{
			Enabled:       getEnvAsBool("KAFKA_ENABLED", false),
			BrokerAddress: getEnv("KAFKA_BROKER_ADDRESS", "localhost:9092"),
			Topic:         getEnv("KAFKA_TOPIC", "airdrop-tracker-events"),
		},
		Airdrop: AirdropConfig{
			RuleID: getEnv("AIRDROP_RULE", heuristic.RuleZeroVolumeID),
		},
		Snapshot: SnapshotConfig{
			Interval: time.Duration(getEnvAsInt("SNAPSHOT_INTERVAL", 3600)) * time.Second,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks that the configuration is usable.
func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendSQLite:
	case BackendPostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND: %s (must be one of: memory, postgres, sqlite)", c.Storage.Backend)
	}

	if c.Storage.Backend == BackendSQLite && c.Storage.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
	}

	if c.ClickHouse.Enabled && c.ClickHouse.Addr == "" {
		return fmt.Errorf("CLICKHOUSE_ADDR is required when ClickHouse is enabled")
	}

	if c.Kafka.Enabled && c.Kafka.BrokerAddress == "" {
		return fmt.Errorf("KAFKA_BROKER_ADDRESS is required when Kafka is enabled")
	}

	if _, ok := heuristic.RuleByID(c.Airdrop.RuleID); !ok {
		return fmt.Errorf("invalid AIRDROP_RULE: %s", c.Airdrop.RuleID)
	}

	if c.Snapshot.Interval < 0 {
		return fmt.Errorf("SNAPSHOT_INTERVAL must not be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid LOG_LEVEL: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
