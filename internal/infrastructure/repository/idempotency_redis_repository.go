package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "course-portal/internal/domain/registration"
	interfaces "course-portal/internal/interfaces/infrastructure"

	"github.com/go-redis/redis/v8"
)

var _ interfaces.IdempotencyRepository = (*RedisIdempotencyRepository)(nil)

// RedisIdempotencyRepository keeps replayable responses in Redis, letting key
// expiry do the cleanup.
type RedisIdempotencyRepository struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisIdempotencyRepository(client redis.UniversalClient) *RedisIdempotencyRepository {
	return &RedisIdempotencyRepository{
		client: client,
		prefix: "course-portal:idempotency:",
		ttl:    24 * time.Hour,
	}
}

// Create stores the entry until its ExpiresAt, or the default TTL when unset.
// Already expired entries are dropped.
func (r *RedisIdempotencyRepository) Create(ctx context.Context, entry *domain.IdempotencyKey) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal idempotency key: %w", err)
	}

	ttl := r.ttl
	if !entry.ExpiresAt.IsZero() {
		ttl = time.Until(entry.ExpiresAt)
		if ttl <= 0 {
			return nil
		}
	}

	if err := r.client.Set(ctx, r.redisKey(entry.Key), string(data), ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotency key in Redis: %w", err)
	}
	return nil
}

func (r *RedisIdempotencyRepository) GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error) {
	val, err := r.client.Get(ctx, r.redisKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get idempotency key from Redis: %w", err)
	}

	var entry domain.IdempotencyKey
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal idempotency key: %w", err)
	}
	return &entry, nil
}

func (r *RedisIdempotencyRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete idempotency key from Redis: %w", err)
	}
	return nil
}

func (r *RedisIdempotencyRepository) redisKey(key string) string {
	return r.prefix + key
}
