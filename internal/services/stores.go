package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// registers the "postgres" driver
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KirkDiggler/clash-profile-bot/internal/config"
	"github.com/KirkDiggler/clash-profile-bot/internal/repositories/profiles"
	"github.com/KirkDiggler/clash-profile-bot/internal/repositories/verifications"
)

const connectTimeout = 5 * time.Second

// Stores are the repositories of the configured backend
type Stores struct {
	Defaults      profiles.Repository
	Verifications verifications.Repository

	// Redis is set for the redis backend, e.g. to share it with the rate limiter
	Redis redis.UniversalClient

	closers []func() error
}

// Close releases the backend connections
func (s *Stores) Close() error {
	var errs []error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenStores connects to the configured backend and builds its repositories
func OpenStores(ctx context.Context, cfg *config.StoreConfig, logger *zap.Logger) (*Stores, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Backend {
	case config.StoreMemory:
		logger.Info("using in-memory stores, saved profiles are lost on restart")
		return &Stores{
			Defaults:      profiles.NewInMemoryRepository(),
			Verifications: verifications.NewInMemoryRepository(),
		}, nil

	case config.StoreRedis:
		client, err := openRedis(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		logger.Info("using redis stores")

		return &Stores{
			Defaults:      profiles.NewRedisRepository(&profiles.RedisRepoConfig{Client: client}),
			Verifications: verifications.NewRedisRepository(&verifications.RedisRepoConfig{Client: client}),
			Redis:         client,
			closers:       []func() error{client.Close},
		}, nil

	case config.StorePostgres:
		return openPostgres(ctx, cfg.Postgres.DSN, logger)

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func openRedis(ctx context.Context, cfg *config.RedisConfig) (redis.UniversalClient, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}
		opts = parsed
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	return client, nil
}

func openPostgres(ctx context.Context, dsn string, logger *zap.Logger) (*Stores, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	defaults, err := profiles.NewPostgresRepository(ctx, &profiles.PostgresRepoConfig{DB: db})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	owners, err := verifications.NewPostgresRepository(ctx, &verifications.PostgresRepoConfig{DB: db})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("using postgres stores")

	return &Stores{
		Defaults:      defaults,
		Verifications: owners,
		closers:       []func() error{db.Close},
	}, nil
}
