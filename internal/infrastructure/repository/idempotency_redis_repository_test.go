package repository

import (
	"context"
	"testing"
	"time"

	domain "course-portal/internal/domain/registration"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRedisIdempotencyRepository_SkipsExpiredEntries(t *testing.T) {
	client := unreachableRedis()
	defer client.Close()
	repo := NewRedisIdempotencyRepository(client)

	// nothing to store, so redis is never contacted
	err := repo.Create(context.Background(), &domain.IdempotencyKey{
		Key:       "old",
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	assert.NoError(t, err)
}

func TestRedisIdempotencyRepository_ReportsConnectionErrors(t *testing.T) {
	client := unreachableRedis()
	defer client.Close()
	repo := NewRedisIdempotencyRepository(client)
	ctx := context.Background()

	err := repo.Create(ctx, &domain.IdempotencyKey{Key: "abc", ExpiresAt: time.Now().Add(time.Hour)})
	assert.ErrorContains(t, err, "failed to store idempotency key")

	_, err = repo.GetByKey(ctx, "abc")
	assert.ErrorContains(t, err, "failed to get idempotency key")

	assert.ErrorContains(t, repo.Delete(ctx, "abc"), "failed to delete idempotency key")
}

func TestRedisIdempotencyRepository_KeyPrefix(t *testing.T) {
	repo := NewRedisIdempotencyRepository(unreachableRedis())
	assert.Equal(t, "course-portal:idempotency:abc", repo.redisKey("abc"))
}
