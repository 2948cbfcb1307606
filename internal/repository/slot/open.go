package slot

import (
	"context"
	"fmt"

	"capibara-storefront/internal/config"
	"capibara-storefront/internal/db"
	"capibara-storefront/internal/migrate"
	"github.com/redis/go-redis/v9"
)

// Open returns the backend selected by cfg.SlotBackend and a func releasing
// its connections.
func Open(ctx context.Context, cfg config.Config) (Repository, func(), error) {
	switch cfg.SlotBackend {
	case "", "file":
		repo, err := NewFile(cfg.SlotDir)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, nil, fmt.Errorf("connect db: %w", err)
		}
		if err := migrate.Apply(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("apply migrations: %w", err)
		}
		return NewPostgres(pool), pool.Close, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return NewRedis(client), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown slot backend %q", cfg.SlotBackend)
	}
}
