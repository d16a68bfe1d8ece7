package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/iho/goaccount/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	// Account
	AccountCreationDate domain.Date `env:"ACCOUNT_CREATION_DATE"` // empty means today
	Timezone            string      `env:"TIMEZONE"              envDefault:"UTC"`

	// Redis (optional - leave empty to disable caching and idempotency)
	RedisURL            string        `env:"REDIS_URL"             envDefault:""`
	RedisConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"10s"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Idempotency and caching
	IdempotencyTTL    time.Duration `env:"IDEMPOTENCY_TTL"     envDefault:"24h"`
	StatementCacheTTL time.Duration `env:"STATEMENT_CACHE_TTL" envDefault:"1h"`

	// Set when a reverse proxy owns X-Forwarded-For / X-Real-IP
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// Rate limiting (0 disables)
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// Outbox
	OutboxBatchSize int           `env:"OUTBOX_BATCH_SIZE" envDefault:"100"`
	OutboxInterval  time.Duration `env:"OUTBOX_INTERVAL"   envDefault:"5s"`

	// Kafka (optional - events are logged when no brokers are set)
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC"   envDefault:"goaccount.events"`
}

// DefaultEnvFile is read by Load when no files are given.
const DefaultEnvFile = ".env"

// Load loads configuration from environment variables. Variables found in
// envFiles (or .env when none are given) fill in whatever the environment
// does not already set; missing files are skipped.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	for _, f := range envFiles {
		if err := loadEnvFile(f); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS < 0 || cfg.RateLimitBurst < 0 {
		return nil, fmt.Errorf("rate limit settings must not be negative")
	}
	if cfg.OutboxBatchSize <= 0 {
		return nil, fmt.Errorf("OUTBOX_BATCH_SIZE must be positive, got %d", cfg.OutboxBatchSize)
	}

	return cfg, nil
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Location returns the time zone that defines the account's calendar day.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// KafkaEnabled reports whether Kafka brokers were configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// RedisEnabled reports whether a Redis URL was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != ""
}
