package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/ErlanBelekov/briefly/config"
)

const secret = "config-test-secret-with-32-chars!!"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("DATABASE_URL", "postgres://localhost/briefly")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Env != "local" || cfg.Port != "8080" || cfg.MetricsPort != "9090" {
		t.Errorf("server defaults = %+v", cfg)
	}
	if cfg.StoreDriver != config.DriverPostgres || cfg.SessionStore != config.SessionStoreSQL {
		t.Errorf("store defaults: driver=%q sessions=%q", cfg.StoreDriver, cfg.SessionStore)
	}
	if cfg.SessionTTL != 7*24*time.Hour {
		t.Errorf("SessionTTL = %v, want 168h", cfg.SessionTTL)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.OpenAIModel != "gpt-3.5-turbo" || cfg.SummaryTimeout != 10*time.Second || cfg.SummaryMaxTokens != 150 {
		t.Errorf("summary defaults = %q %v %d", cfg.OpenAIModel, cfg.SummaryTimeout, cfg.SummaryMaxTokens)
	}
	if cfg.SummariesEnabled() {
		t.Error("summaries should be disabled without an API key")
	}
	if !cfg.MigrateOnStart {
		t.Error("MigrateOnStart should default to true")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/briefly")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")
	t.Setenv("DATABASE_URL", "postgres://localhost/briefly")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for a short JWT_SECRET")
	}
}

func TestLoad_PostgresNeedsURL(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("DATABASE_URL", "")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL for postgres")
	}
}

func TestLoad_SQLiteNeedsNoURL(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", ":memory:")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SQLitePath != ":memory:" {
		t.Errorf("SQLitePath = %q", cfg.SQLitePath)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"STORE_DRIVER":     "mysql",
		"SESSION_STORE":    "memcached",
		"BCRYPT_COST":      "3",
		"LOG_LEVEL":        "verbose",
		"ENV":              "dev",
		"RECORD_STORE_URL": "not a url",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv("JWT_SECRET", secret)
			t.Setenv("DATABASE_URL", "postgres://localhost/briefly")
			t.Setenv(key, value)

			if _, err := config.Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		cfg := &config.Config{LogLevel: in}
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
