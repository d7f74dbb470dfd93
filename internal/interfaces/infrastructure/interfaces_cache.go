package interfaces

import (
	"context"
	"time"
)

type CacheService interface {
	// Get reports found=false on a miss rather than an error.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	Health(ctx context.Context) error
	Close() error
}
