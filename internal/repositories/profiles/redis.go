package profiles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	apperr "github.com/KirkDiggler/clash-profile-bot/internal/errors"
)

// Data is the serialized default profile stored in Redis
type Data struct {
	UserID    string    `json:"user_id"`
	Tag       string    `json:"tag"`
	UpdatedAt time.Time `json:"updated_at"`
}

type redisRepo struct {
	client       redis.UniversalClient
	timeProvider TimeProvider
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client       redis.UniversalClient
	TimeProvider TimeProvider
}

// NewRedisRepository creates a Redis-backed default profile repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}

	timeProvider := cfg.TimeProvider
	if timeProvider == nil {
		timeProvider = RealTimeProvider{}
	}

	return &redisRepo{
		client:       cfg.Client,
		timeProvider: timeProvider,
	}
}

func defaultKey(userID string) string {
	return fmt.Sprintf("profile:default:%s", userID)
}

func (r *redisRepo) Get(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", apperr.InvalidArgument("user ID is required")
	}

	jsonData, err := r.client.Get(ctx, defaultKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFoundf("no default profile for user '%s'", userID).
				WithMeta("user_id", userID)
		}
		return "", apperr.Wrap(err, "failed to get default profile")
	}

	var data Data
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return "", apperr.WrapWithCode(err, apperr.CodeInternal, "failed to unmarshal default profile")
	}

	return data.Tag, nil
}

func (r *redisRepo) Set(ctx context.Context, userID, tag string) error {
	if userID == "" {
		return apperr.InvalidArgument("user ID is required")
	}
	if tag == "" {
		return apperr.InvalidArgument("tag is required")
	}

	jsonData, err := json.Marshal(Data{
		UserID:    userID,
		Tag:       tag,
		UpdatedAt: r.timeProvider.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal default profile: %w", err)
	}

	if err := r.client.Set(ctx, defaultKey(userID), string(jsonData), 0).Err(); err != nil {
		return apperr.Wrap(err, "failed to save default profile")
	}

	return nil
}

func (r *redisRepo) Delete(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, apperr.InvalidArgument("user ID is required")
	}

	removed, err := r.client.Del(ctx, defaultKey(userID)).Result()
	if err != nil {
		return false, apperr.Wrap(err, "failed to delete default profile")
	}

	return removed > 0, nil
}
