// Package stores opens the persistence backends selected by configuration and
// hands back repositories plus the dependencies the readiness probe pings.
package stores

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ErlanBelekov/briefly/config"
	"github.com/ErlanBelekov/briefly/internal/health"
	"github.com/ErlanBelekov/briefly/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/briefly/internal/infrastructure/recordstore"
	bredis "github.com/ErlanBelekov/briefly/internal/infrastructure/redis"
	"github.com/ErlanBelekov/briefly/internal/infrastructure/sqlite"
	"github.com/ErlanBelekov/briefly/internal/repository"
)

type Stores struct {
	Users    repository.UserRepository
	Sessions repository.SessionRepository
	Articles repository.ArticleRepository
	// Deps are probed by /readyz.
	Deps []health.Dependency

	closers []func()
}

// Open connects every configured backend. On error, anything already opened
// is closed.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	s := &Stores{}
	opened := false
	defer func() {
		if !opened {
			s.Close()
		}
	}()

	switch cfg.StoreDriver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { db.Close() })
		s.Users = sqlite.NewUserRepository(db)
		s.Sessions = sqlite.NewSessionRepository(db)
		s.Articles = sqlite.NewArticleRepository(db)
		s.Deps = append(s.Deps, health.Dependency{Name: "sqlite", Pinger: db})
		logger.Info("using sqlite store", "path", cfg.SQLitePath)

	default:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		s.closers = append(s.closers, pool.Close)
		if cfg.MigrateOnStart {
			if err := postgres.Migrate(ctx, pool); err != nil {
				return nil, err
			}
			logger.Info("migrations applied")
		}
		s.Users = postgres.NewUserRepository(pool)
		s.Sessions = postgres.NewSessionRepository(pool)
		s.Articles = postgres.NewArticleRepository(pool)
		s.Deps = append(s.Deps, health.Dependency{Name: "postgres", Pinger: pool})
	}

	if cfg.SessionStore == config.SessionStoreRedis {
		client, err := bredis.NewClient(ctx, bredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { client.Close() })
		s.Sessions = bredis.NewSessionRepository(client)
		s.Deps = append(s.Deps, health.Dependency{Name: "redis", Pinger: bredis.Pinger{Client: client}})
		logger.Info("using redis session store", "addr", cfg.RedisAddr)
	}

	if cfg.RecordStoreURL != "" {
		articles := recordstore.NewArticleRepository(cfg.RecordStoreURL, nil)
		s.Articles = articles
		s.Deps = append(s.Deps, health.Dependency{Name: "record_store", Pinger: articles})
		logger.Info("using record store for articles", "url", cfg.RecordStoreURL)
	}

	opened = true
	return s, nil
}

// Close releases backends in reverse open order.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
