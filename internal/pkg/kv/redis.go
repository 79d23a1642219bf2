package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each table as a single string key.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed store
func NewRedisStore(client *redis.Client, prefix string) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis store requires a configured Redis client")
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) key(table string) string {
	return s.prefix + table
}

func (s *RedisStore) Read(ctx context.Context, table string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(table)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get from Redis: %w", err)
	}
	return data, nil
}

func (s *RedisStore) Write(ctx context.Context, table string, data []byte) error {
	if err := s.client.Set(ctx, s.key(table), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set in Redis: %w", err)
	}
	return nil
}
