package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"course-portal/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "auth-storage")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "auth-storage", `{"state":{"user":null,"token":null},"version":0}`))
	require.NoError(t, store.Set(ctx, "theme-storage", `{"state":{"mode":"light"}}`))

	v, ok, err := store.Get(ctx, "auth-storage")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, v, `"token":null`)

	require.NoError(t, store.Delete(ctx, "auth-storage"))
	_, ok, err = store.Get(ctx, "auth-storage")
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err = store.Get(ctx, "theme-storage")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"state":{"mode":"light"}}`, v)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.yaml")
	exerciseStore(t, NewFileStore(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.yaml")
	ctx := context.Background()

	require.NoError(t, NewFileStore(path).Set(ctx, "k", "v"))

	v, ok, err := NewFileStore(path).Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o600))

	_, _, err := NewFileStore(path).Get(context.Background(), "k")
	assert.Error(t, err)
}

type fakeCache struct {
	values map[string]string
}

func (f *fakeCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.values[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.values, key)
	return nil
}

func (f *fakeCache) Health(context.Context) error { return nil }
func (f *fakeCache) Close() error                  { return nil }

func TestRedisStore_NamespacesKeys(t *testing.T) {
	fc := &fakeCache{values: map[string]string{}}
	exerciseStore(t, NewRedisStore(fc))

	_, ok := fc.values["client:theme-storage"]
	assert.True(t, ok)
}

func TestNew(t *testing.T) {
	cfg := &config.Config{}
	cfg.Client.Storage = "memory"
	s, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	cfg.Client.Storage = "file"
	cfg.Client.StoragePath = filepath.Join(t.TempDir(), "s.yaml")
	s, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	cfg.Client.Storage = "carrier-pigeon"
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestFileStore_SaveReportsReplaceFailure(t *testing.T) {
	target := filepath.Join(t.TempDir(), "storage.yaml")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "occupied"), 0o750))

	store := NewFileStore(target)
	err := store.save(map[string]string{"theme-storage": `{"state":{"mode":"dark"}}`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to replace storage file")
}
