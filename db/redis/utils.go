package redis

import (
	"context"
	"errors"
	"time"

	"github.com/octabyte/salon-gommon/storage"
	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "salon:session:"

// Storage persists session keys in redis under a per-install prefix. A zero
// TTL keeps keys until they are deleted.
type Storage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ storage.Storage = (*Storage)(nil)

func NewStorage(client *redis.Client, prefix string, ttl time.Duration) *Storage {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Storage{client: client, prefix: prefix, ttl: ttl}
}

func (s *Storage) key(k string) string {
	return s.prefix + k
}

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", storage.ErrNotFound
	}
	return value, err
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.key(key), value, s.ttl).Err()
}

func (s *Storage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = s.key(k)
	}
	return s.client.Del(ctx, prefixed...).Err()
}
