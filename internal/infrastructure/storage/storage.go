// Package storage provides the small key-value store the portal client uses
// to persist its session and preferences between runs.
package storage

import (
	"context"
	"fmt"
	"sync"

	"course-portal/internal/config"
	"course-portal/internal/infrastructure/cache"
)

// KeyValueStore persists string values by key.
type KeyValueStore interface {
	// Get reports ok=false when the key has never been written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// New builds the store selected by the client configuration.
func New(cfg *config.Config) (KeyValueStore, error) {
	switch cfg.Client.Storage {
	case "memory":
		return NewMemoryStore(), nil
	case "file", "":
		return NewFileStore(cfg.Client.StoragePath), nil
	case "redis":
		return NewRedisStore(cache.NewRedisCacheWithConfig(&cfg.Cache)), nil
	default:
		return nil, fmt.Errorf("unsupported client storage %q", cfg.Client.Storage)
	}
}

type MemoryStore struct {
	values map[string]string
	mutex  sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.values, key)
	return nil
}
