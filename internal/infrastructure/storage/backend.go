// Package storage opens the configured snapshot backend.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"onboarding/internal/domain/snapshot"
	"onboarding/internal/infrastructure/storage/memory"
	"onboarding/internal/infrastructure/storage/postgres"
	"onboarding/internal/infrastructure/storage/redis"
	"onboarding/pkg/logger"
)

// Backend kinds.
const (
	KindMemory   = "memory"
	KindPostgres = "postgres"
	KindRedis    = "redis"
)

// Config selects and configures a snapshot backend.
type Config struct {
	Kind        string
	DatabaseURL string
	RedisURL    string
	// TTL expires Redis snapshots; zero keeps them.
	TTL time.Duration
	// DatabaseMaxConns overrides the Postgres pool size when positive.
	DatabaseMaxConns int32
}

// Backend is an opened snapshot store with its lifecycle.
type Backend struct {
	Kind  string
	Store snapshot.Store
	close func()
}

// Ping reports backend readiness. Stores without a health check are always ready.
func (b *Backend) Ping(ctx context.Context) error {
	if p, ok := b.Store.(snapshot.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close releases connections.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open connects to the backend named by cfg.Kind.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (*Backend, error) {
	kind := strings.ToLower(strings.TrimSpace(cfg.Kind))
	if kind == "" {
		kind = KindMemory
	}

	switch kind {
	case KindMemory:
		log.Infow("using in-memory snapshot store")
		return &Backend{Kind: kind, Store: memory.NewStore()}, nil

	case KindPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
		poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
		if cfg.DatabaseMaxConns > 0 {
			poolCfg.MaxConns = cfg.DatabaseMaxConns
		}
		pool, err := postgres.NewPool(ctx, poolCfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		store, err := postgres.NewSnapshotStore(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		log.Infow("using postgres snapshot store", pool.Stats().LogFields()...)
		return &Backend{
			Kind:  kind,
			Store: store,
			close: func() {
				log.Infow("closing postgres pool", pool.Stats().LogFields()...)
				pool.Close()
			},
		}, nil

	case KindRedis:
		client, err := redis.New(ctx, redis.DefaultConfig(cfg.RedisURL))
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		log.Infow("using redis snapshot store", "ttl", cfg.TTL)
		return &Backend{
			Kind:  kind,
			Store: redis.NewStore(client, redis.WithTTL(cfg.TTL)),
			close: func() { _ = client.Close() },
		}, nil
	}

	return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Kind)
}
