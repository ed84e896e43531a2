package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const bucketKeyPrefix = "rl:submit:"

// RedisBucketStore implements BucketStore with a fixed window counter in
// Redis, for deployments running more than one instance. A fixed window is a
// coarser guarantee than the in-memory sliding window but keeps the check to
// one round trip.
type RedisBucketStore struct {
	client *redis.Client
}

func NewRedisBucketStore(client *redis.Client) *RedisBucketStore {
	return &RedisBucketStore{client: client}
}

func (s *RedisBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	bucketKey := bucketKeyPrefix + key

	count, err := s.client.Incr(ctx, bucketKey).Result()
	if err != nil {
		return Result{}, fmt.Errorf("incr %s: %w", bucketKey, err)
	}
	// First hit in the window owns the expiry.
	if count == 1 {
		if err := s.client.Expire(ctx, bucketKey, window).Err(); err != nil {
			return Result{}, fmt.Errorf("expire %s: %w", bucketKey, err)
		}
	}

	ttl, err := s.client.TTL(ctx, bucketKey).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	resetAt := time.Now().Add(ttl)

	if count > int64(limit) {
		return Result{Allowed: false, ResetAt: resetAt}, nil
	}
	return Result{
		Allowed:   true,
		Remaining: limit - int(count),
		ResetAt:   resetAt,
	}, nil
}
