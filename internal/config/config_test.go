package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestInit_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()
	Init()

	cfg := Get()
	assert.Equal(t, "course-portal", cfg.App.Name)
	assert.Equal(t, "http://localhost:3000/api", cfg.Client.BaseURL)
	assert.Equal(t, "table", cfg.Client.Output)
	assert.Equal(t, 3*time.Second, cfg.Client.MessageTTL())
	assert.Equal(t, 10*time.Second, cfg.Client.Timeout())
	assert.Zero(t, cfg.Client.SessionMaxAge())
	assert.Equal(t, "memory", cfg.Backend.Repository)
}

func TestInit_Overrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()
	viper.Set("client.message_ttl_ms", 500)
	viper.Set("client.session_max_age_hours", 24)
	viper.Set("cache.host", "redis")
	viper.Set("cache.port", 6380)
	Init()

	cfg := Get()
	assert.Equal(t, 500*time.Millisecond, cfg.Client.MessageTTL())
	assert.Equal(t, 24*time.Hour, cfg.Client.SessionMaxAge())
	assert.Equal(t, "redis:6380", cfg.Cache.Addr())
}
