package storage

import (
	"context"

	interfaces "course-portal/internal/interfaces/infrastructure"
)

// RedisStore shares client state across machines through the cache service.
// Entries never expire.
type RedisStore struct {
	cache interfaces.CacheService
}

func NewRedisStore(cache interfaces.CacheService) *RedisStore {
	return &RedisStore{cache: cache}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.cache.Get(ctx, "client:"+key)
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.cache.Set(ctx, "client:"+key, value, 0)
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.cache.Delete(ctx, "client:"+key)
}

func (s *RedisStore) Close() error {
	return s.cache.Close()
}
