package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the whole application configuration, populated from
// environment variables.
type Config struct {
	App   AppConfig
	Redis RedisConfig
	JWT   JWTConfig
	MinIO MinIOConfig
	View  ViewConfig
	Sweep SweepConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool // false for local
}

// ViewConfig controls the optional duplicate-view suppression collaborator.
// When disabled, every view call increments the counter unconditionally.
type ViewConfig struct {
	DedupEnabled bool
}

// SweepConfig controls the blob reconciliation sweep run by the worker.
// GracePeriod keeps freshly uploaded objects out of the sweep so an upload
// that has not yet committed its relational row is never collected.
type SweepConfig struct {
	Cron        string
	GracePeriod time.Duration
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	jwtExpiry, err := time.ParseDuration(getEnv("JWT_EXPIRY", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY: %w", err)
	}

	sweepGrace, err := time.ParseDuration(getEnv("SWEEP_GRACE_PERIOD", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_GRACE_PERIOD: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Portfolio API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			Expiry: jwtExpiry,
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "portfolios"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		View: ViewConfig{
			DedupEnabled: getEnvBool("VIEW_DEDUP_ENABLED", false),
		},
		Sweep: SweepConfig{
			Cron:        getEnv("SWEEP_CRON", "0 4 * * *"),
			GracePeriod: sweepGrace,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks critical configuration.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
