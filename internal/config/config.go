package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      LogConfig      `mapstructure:"log"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Client   ClientConfig   `mapstructure:"client"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host               string `mapstructure:"host"`
	Port               string `mapstructure:"port"`
	ReadTimeout        int    `mapstructure:"read_timeout"`
	WriteTimeout       int    `mapstructure:"write_timeout"`
	MaxHeaderBytes     int    `mapstructure:"max_header_bytes"`
	SimulatedLatencyMS int    `mapstructure:"simulated_latency_ms"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Type            string `mapstructure:"type"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Password        string `mapstructure:"password"`
	DB              int    `mapstructure:"db"`
	CourseTTLSecond int    `mapstructure:"course_ttl_seconds"`
}

// Addr returns host:port for the redis client.
func (c CacheConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// BackendConfig selects where the registration server keeps its data.
type BackendConfig struct {
	// Repository is "memory" (built-in fixture) or "postgres".
	Repository string `mapstructure:"repository"`
	// Idempotency is "memory", "redis" or "postgres".
	Idempotency string `mapstructure:"idempotency"`
	SeedOnStart bool   `mapstructure:"seed_on_start"`
}

// ClientConfig holds settings for the portal client commands.
type ClientConfig struct {
	BaseURL            string `mapstructure:"base_url"`
	TimeoutSeconds     int    `mapstructure:"timeout_seconds"`
	Storage            string `mapstructure:"storage"`
	StoragePath        string `mapstructure:"storage_path"`
	MessageTTLMS       int    `mapstructure:"message_ttl_ms"`
	SessionMaxAgeHours int    `mapstructure:"session_max_age_hours"`
	Output             string `mapstructure:"output"`
}

func (c ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c ClientConfig) MessageTTL() time.Duration {
	return time.Duration(c.MessageTTLMS) * time.Millisecond
}

// SessionMaxAge is zero when persisted sessions never expire.
func (c ClientConfig) SessionMaxAge() time.Duration {
	return time.Duration(c.SessionMaxAgeHours) * time.Hour
}

var config *Config

// Init initializes the configuration
func Init() {
	config = &Config{}

	setDefaults()

	if err := viper.Unmarshal(config); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
}

// Get returns the global configuration
func Get() *Config {
	if config == nil {
		Init()
	}
	return config
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".course-portal/storage.yaml"
	}
	return filepath.Join(home, ".course-portal", "storage.yaml")
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("app.name", "course-portal")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.environment", "development")

	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", "3000")
	viper.SetDefault("server.read_timeout", 15)
	viper.SetDefault("server.write_timeout", 15)
	viper.SetDefault("server.max_header_bytes", 1048576)
	viper.SetDefault("server.simulated_latency_ms", 0)

	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.username", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.name", "course_portal")
	viper.SetDefault("database.ssl_mode", "disable")

	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.type", "redis")
	viper.SetDefault("cache.host", "localhost")
	viper.SetDefault("cache.port", 6379)
	viper.SetDefault("cache.password", "")
	viper.SetDefault("cache.db", 0)
	viper.SetDefault("cache.course_ttl_seconds", 300)

	// stderr keeps CLI tables on stdout readable
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("log.output", "stderr")
	viper.SetDefault("log.file_path", "")

	viper.SetDefault("backend.repository", "memory")
	viper.SetDefault("backend.idempotency", "memory")
	viper.SetDefault("backend.seed_on_start", false)

	viper.SetDefault("client.base_url", "http://localhost:3000/api")
	viper.SetDefault("client.timeout_seconds", 10)
	viper.SetDefault("client.storage", "file")
	viper.SetDefault("client.storage_path", defaultStoragePath())
	viper.SetDefault("client.message_ttl_ms", 3000)
	viper.SetDefault("client.session_max_age_hours", 0)
	viper.SetDefault("client.output", "table")
}
