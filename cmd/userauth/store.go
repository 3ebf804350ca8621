package main

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/userauth/rbac-api/internal/api/handler"
	"github.com/userauth/rbac-api/internal/core/ports"
	"github.com/userauth/rbac-api/internal/infrastructure/db/gormdb"
	mongostore "github.com/userauth/rbac-api/internal/infrastructure/db/mongo"
	redisstore "github.com/userauth/rbac-api/internal/infrastructure/db/redis"
	"github.com/userauth/rbac-api/internal/pkg/config"
)

// store is the credential store selected by STORE_DRIVER, optionally fronted
// by the Redis list cache.
type store struct {
	repo    ports.UserRepository
	checks  map[string]handler.Checker
	closers []func(context.Context) error
}

func (s *store) Close(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i](ctx)
	}
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	s := &store{checks: map[string]handler.Checker{}}

	switch cfg.Store.Driver {
	case config.StoreMongo:
		client, repo, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		s.repo = repo
		s.checks["mongo"] = repo.Ping
		s.closers = append(s.closers, client.Disconnect)
	default:
		dsn := cfg.Store.SQLitePath
		if cfg.Store.Driver == config.StoreMySQL {
			dsn = cfg.Store.MySQLDSN
		}
		db, err := gormdb.Open(gormdb.Config{Driver: cfg.Store.Driver, DSN: dsn})
		if err != nil {
			return nil, err
		}
		s.repo = gormdb.NewUserRepository(db)
		s.checks[cfg.Store.Driver] = func(ctx context.Context) error { return gormdb.Ping(ctx, db) }
		s.closers = append(s.closers, func(context.Context) error { return gormdb.Close(db) })
	}

	if cfg.Redis.Addr == "" {
		return s, nil
	}

	client, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		// The cache is optional; serve straight from the store.
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, list cache disabled")
		return s, nil
	}

	cached := redisstore.NewCachedUserRepository(s.repo, client, cfg.Redis.CacheTTL, log)
	s.repo = cached
	s.checks["redis"] = cached.Ping
	s.closers = append(s.closers, func(context.Context) error { return client.Close() })
	log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.CacheTTL).Msg("user list cache enabled")

	return s, nil
}
