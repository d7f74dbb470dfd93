package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"course-portal/internal/infrastructure/storage"
)

// ThemeStorageKey is where the display preference is persisted.
const ThemeStorageKey = "theme-storage"

type ThemeMode string

const (
	ThemeDark  ThemeMode = "dark"
	ThemeLight ThemeMode = "light"
)

func ParseThemeMode(s string) (ThemeMode, error) {
	switch ThemeMode(s) {
	case ThemeDark, ThemeLight:
		return ThemeMode(s), nil
	}
	return "", fmt.Errorf("unknown theme %q (want dark or light)", s)
}

type persistedTheme struct {
	State struct {
		Mode ThemeMode `json:"mode"`
	} `json:"state"`
	Version int `json:"version"`
}

// ThemePreference is the persisted dark/light display mode. Dark is the
// default.
type ThemePreference struct {
	store storage.KeyValueStore

	mu   sync.RWMutex
	mode ThemeMode
}

func NewThemePreference(store storage.KeyValueStore) *ThemePreference {
	return &ThemePreference{store: store, mode: ThemeDark}
}

// Load reads the persisted mode. Unknown or unreadable values keep the default.
func (t *ThemePreference) Load(ctx context.Context) error {
	raw, found, err := t.store.Get(ctx, ThemeStorageKey)
	if err != nil {
		return fmt.Errorf("failed to read theme: %w", err)
	}
	if !found {
		return nil
	}
	var saved persistedTheme
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		return fmt.Errorf("failed to decode theme: %w", err)
	}
	if mode, err := ParseThemeMode(string(saved.State.Mode)); err == nil {
		t.mu.Lock()
		t.mode = mode
		t.mu.Unlock()
	}
	return nil
}

func (t *ThemePreference) Mode() ThemeMode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode
}

// Set changes and persists the mode.
func (t *ThemePreference) Set(ctx context.Context, mode ThemeMode) error {
	if _, err := ParseThemeMode(string(mode)); err != nil {
		return err
	}
	t.mu.Lock()
	t.mode = mode
	t.mu.Unlock()
	return t.save(ctx, mode)
}

// Toggle flips between dark and light and returns the new mode.
func (t *ThemePreference) Toggle(ctx context.Context) (ThemeMode, error) {
	t.mu.Lock()
	if t.mode == ThemeDark {
		t.mode = ThemeLight
	} else {
		t.mode = ThemeDark
	}
	mode := t.mode
	t.mu.Unlock()
	return mode, t.save(ctx, mode)
}

func (t *ThemePreference) save(ctx context.Context, mode ThemeMode) error {
	var saved persistedTheme
	saved.State.Mode = mode
	data, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("failed to encode theme: %w", err)
	}
	if err := t.store.Set(ctx, ThemeStorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to write theme: %w", err)
	}
	return nil
}
