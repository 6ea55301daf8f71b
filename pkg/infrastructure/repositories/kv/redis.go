package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/vsinha/metalerp/pkg/domain/repositories"
)

// RedisStore keeps documents as plain string values in Redis
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to redisURL and validates the connection
func NewRedisStore(ctx context.Context, redisURL, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{client: rdb, prefix: prefix}, nil
}

// Verify interface compliance
var _ repositories.BlobStore = (*RedisStore)(nil)

// Save overwrites the value under key
func (s *RedisStore) Save(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Load returns the value under key
func (s *RedisStore) Load(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

// Close releases the redis connection pool
func (s *RedisStore) Close() error {
	return s.client.Close()
}
