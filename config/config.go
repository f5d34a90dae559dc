package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	SessionStoreSQL   = "sql"
	SessionStoreRedis = "redis"
)

type Config struct {
	Env         string `env:"ENV"          envDefault:"local" validate:"required,oneof=local staging production"`
	Port        string `env:"PORT"         envDefault:"8080"  validate:"required"`
	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel    string `env:"LOG_LEVEL"    envDefault:"info"  validate:"oneof=debug info warn error"`

	StoreDriver    string `env:"STORE_DRIVER"     envDefault:"postgres"  validate:"oneof=postgres sqlite"`
	DatabaseURL    string `env:"DATABASE_URL"                            validate:"required_if=StoreDriver postgres"`
	DBMaxConns     int32  `env:"DB_MAX_CONNS"     envDefault:"10"        validate:"min=1,max=100"`
	SQLitePath     string `env:"SQLITE_PATH"      envDefault:"briefly.db"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"true"`

	SessionStore  string `env:"SESSION_STORE"  envDefault:"sql" validate:"oneof=sql redis"`
	RedisAddr     string `env:"REDIS_ADDR"     envDefault:"localhost:6379" validate:"required_if=SessionStore redis"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"       envDefault:"0" validate:"min=0,max=15"`

	RecordStoreURL string `env:"RECORD_STORE_URL" validate:"omitempty,url"`

	JWTSecret  string        `env:"JWT_SECRET,required" validate:"required,min=32"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h" validate:"min=1m"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"12"   validate:"min=4,max=31"`

	OpenAIAPIKey     string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string        `env:"OPENAI_BASE_URL"    envDefault:"https://api.openai.com" validate:"url"`
	OpenAIModel      string        `env:"OPENAI_MODEL"       envDefault:"gpt-3.5-turbo"`
	SummaryTimeout   time.Duration `env:"SUMMARY_TIMEOUT"    envDefault:"10s" validate:"min=100ms,max=2m"`
	SummaryMaxTokens int           `env:"SUMMARY_MAX_TOKENS" envDefault:"150" validate:"min=16,max=4096"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SummariesEnabled reports whether a remote summarization provider is configured.
func (c *Config) SummariesEnabled() bool {
	return c.OpenAIAPIKey != ""
}
