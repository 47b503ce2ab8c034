package verifications

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	apperr "github.com/KirkDiggler/clash-profile-bot/internal/errors"
)

type redisRepo struct {
	client redis.UniversalClient
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

// NewRedisRepository creates a Redis-backed verification repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}

	return &redisRepo{
		client: cfg.Client,
	}
}

func ownersKey(tag string) string {
	return fmt.Sprintf("verification:%s:owners", tag)
}

func userTagsKey(userID string) string {
	return fmt.Sprintf("user:%s:verified", userID)
}

func validate(tag, userID string) error {
	if tag == "" {
		return apperr.InvalidArgument("tag is required")
	}
	if userID == "" {
		return apperr.InvalidArgument("user ID is required")
	}
	return nil
}

func (r *redisRepo) IsOwner(ctx context.Context, tag, userID string) (bool, error) {
	if err := validate(tag, userID); err != nil {
		return false, err
	}

	ok, err := r.client.SIsMember(ctx, ownersKey(tag), userID).Result()
	if err != nil {
		return false, apperr.Wrap(err, "failed to check verification").
			WithMeta("tag", tag)
	}

	return ok, nil
}

func (r *redisRepo) Add(ctx context.Context, tag, userID string) error {
	if err := validate(tag, userID); err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.SAdd(ctx, ownersKey(tag), userID)
	pipe.SAdd(ctx, userTagsKey(userID), tag)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Wrap(err, "failed to add verification")
	}

	return nil
}

func (r *redisRepo) Remove(ctx context.Context, tag, userID string) (bool, error) {
	if err := validate(tag, userID); err != nil {
		return false, err
	}

	pipe := r.client.Pipeline()
	removed := pipe.SRem(ctx, ownersKey(tag), userID)
	pipe.SRem(ctx, userTagsKey(userID), tag)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, apperr.Wrap(err, "failed to remove verification")
	}

	return removed.Val() > 0, nil
}

func (r *redisRepo) ListByUser(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, apperr.InvalidArgument("user ID is required")
	}

	tags, err := r.client.SMembers(ctx, userTagsKey(userID)).Result()
	if err != nil {
		return nil, apperr.Wrap(err, "failed to list verifications")
	}

	sort.Strings(tags)
	return tags, nil
}
