// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package bootstrap opens the storage tiers and assembles the reading services.

It is shared by the API server and the ops CLI so both run the exact same
wiring. No business logic lives here.
*/
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/khatmah/internal/platform/clock"
	"github.com/taibuivan/khatmah/internal/platform/config"
	pgstore "github.com/taibuivan/khatmah/internal/platform/postgres"
	redisstore "github.com/taibuivan/khatmah/internal/platform/redis"
	"github.com/taibuivan/khatmah/internal/platform/tiered"
	"github.com/taibuivan/khatmah/internal/quran"
	"github.com/taibuivan/khatmah/internal/reading/bookmark"
	"github.com/taibuivan/khatmah/internal/reading/plan"
	"github.com/taibuivan/khatmah/internal/reading/sharedplan"
	"github.com/taibuivan/khatmah/internal/reading/tracker"
	"github.com/taibuivan/khatmah/internal/social/link"
)

// # Infrastructure

// Infrastructure holds the open connections of both tiers.
type Infrastructure struct {
	Pool   *pgxpool.Pool
	Redis  *redis.Client
	Cache  tiered.Cache
	Writer *tiered.WriteBehind
	Clock  clock.Clock

	logger  *slog.Logger
	closers []func()
}

/*
Open connects to PostgreSQL and Redis and opens the configured local tier.

Returns:
  - *Infrastructure: ready to use; release with Close
  - error: the first connection that failed, with everything opened so far closed
*/
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	infra := &Infrastructure{
		Writer: tiered.NewWriteBehind(logger, cfg.DurableWriteTimeout),
		Clock:  clock.System{},
		logger: logger,
	}

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, cfg.DurableWriteTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	infra.Pool = pool
	infra.closers = append(infra.closers, func() {
		logger.Info("closing_postgres_pool")
		pool.Close()
	})

	client, err := redisstore.NewClient(ctx, cfg.RedisURL, logger)
	if err != nil {
		infra.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	infra.Redis = client
	infra.closers = append(infra.closers, func() {
		logger.Info("closing_redis_client")
		if err := client.Close(); err != nil {
			logger.Error("redis_close_failed", slog.Any("error", err))
		}
	})

	switch cfg.LocalCacheDriver {
	case config.CacheDriverBadger:
		badgerCache, err := tiered.OpenBadgerCache(cfg.BadgerPath, logger)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("open badger cache: %w", err)
		}
		infra.Cache = badgerCache
		infra.closers = append(infra.closers, func() {
			logger.Info("closing_badger_cache")
			if err := badgerCache.Close(); err != nil {
				logger.Error("badger_close_failed", slog.Any("error", err))
			}
		})
	default:
		infra.Cache = tiered.NewRedisCache(client)
	}

	logger.Info("storage_tiers_ready", slog.String("local_cache_driver", cfg.LocalCacheDriver))
	return infra, nil
}

// Close drains pending durable writes, then closes connections in reverse order.
func (infra *Infrastructure) Close() {
	infra.logger.Info("draining_durable_writes")
	infra.Writer.Wait()

	for i := len(infra.closers) - 1; i >= 0; i-- {
		infra.closers[i]()
	}
	infra.closers = nil
}

// # Services

// Services are the reading engine's components, wired together.
type Services struct {
	Resolver    *quran.Resolver
	Links       *link.PostgresDirectory
	Bookmarks   *bookmark.Service
	Plans       *plan.Service
	SharedPlans *sharedplan.Service
	Tracker     *tracker.Tracker
}

// NewServices builds every reading service on top of infra.
func NewServices(infra *Infrastructure, cfg *config.Config, logger *slog.Logger) *Services {
	stamper := clock.NewStamper(infra.Clock)

	provider := quran.NewHTTPProvider(cfg.ContentProviderURL, cfg.ContentProviderEdition, cfg.ContentProviderRPS, logger)
	resolver := quran.NewResolver(provider, quran.NewRedisPageCache(infra.Redis), logger)
	links := link.NewPostgresDirectory(infra.Pool)

	bookmarks := bookmark.NewService(infra.Cache, bookmark.NewPostgresRepository(infra.Pool), resolver, infra.Writer, stamper, logger)
	plans := plan.NewService(infra.Cache, plan.NewPostgresRepository(infra.Pool), infra.Writer, stamper, logger)
	sharedPlans := sharedplan.NewService(infra.Cache, sharedplan.NewPostgresRepository(infra.Pool), links, infra.Writer, stamper, logger)

	return &Services{
		Resolver:    resolver,
		Links:       links,
		Bookmarks:   bookmarks,
		Plans:       plans,
		SharedPlans: sharedPlans,
		Tracker:     tracker.New(bookmarks, plans, sharedPlans, logger),
	}
}
