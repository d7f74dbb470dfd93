package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"course-portal/internal/config"
	interfaces "course-portal/internal/interfaces/infrastructure"

	"github.com/go-redis/redis/v8"
)

var _ interfaces.CacheService = (*RedisCache)(nil)

type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(addr, password string, db int) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisCache{
		client: rdb,
		prefix: "course-portal:",
	}
}

func NewRedisCacheWithConfig(cfg *config.CacheConfig) *RedisCache {
	return NewRedisCache(cfg.Addr(), cfg.Password, cfg.DB)
}

// GetClient exposes the underlying client for repositories that need
// richer commands than Get/Set.
func (r *RedisCache) GetClient() *redis.Client {
	return r.client
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get %s from cache: %w", key, err)
	}
	return val, true, nil
}

// Set stores value; a zero ttl keeps the key until it is deleted.
func (r *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s in cache: %w", key, err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s from cache: %w", key, err)
	}
	return nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
