package config

import (
	"time"

	"github.com/sourabhrustagi/taskgate/internal/infra/httpapi"
	"github.com/sourabhrustagi/taskgate/internal/infra/mockapi"
	redisclient "github.com/sourabhrustagi/taskgate/internal/infra/redis"
	"github.com/sourabhrustagi/taskgate/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	Mode     string             `yaml:"mode"` // mock, real
	API      httpapi.Config     `yaml:"api"`
	Retry    RetryConfig        `yaml:"retry"`
	Mock     mockapi.Config     `yaml:"mock"`
	Redis    redisclient.Config `yaml:"redis"`
	Database postgres.Config    `yaml:"database"`
	Logging  LoggingConfig      `yaml:"logging"`
}

// ServerConfig holds health/metrics server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// RetryConfig holds the process-wide default retry policy.
type RetryConfig struct {
	MaxAttempts       int           `yaml:"max_attempts"`
	BaseDelay         time.Duration `yaml:"base_delay"`
	MaxDelay          time.Duration `yaml:"max_delay"`
	BackoffMultiplier float64       `yaml:"backoff_multiplier"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}
