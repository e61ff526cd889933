package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		Name string
		Env  string
	}

	API struct {
		Host string
		Port string
	}

	DB struct {
		// Driver selects the storage backend: "postgres" or "memory".
		Driver   string
		Host     string
		Port     int
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	Redis struct {
		// Addr empty disables the cache entirely.
		Addr     string
		Password string
		DB       int
	}

	Webhook struct {
		// Secret keys the HMAC signature check. Empty means the service is
		// not ready and every webhook is rejected (fail closed).
		Secret string
	}

	Log struct {
		Level  string
		Format string
		// File enables a rotating file sink when set; empty logs to stdout.
		File string
	}

	Pagination struct {
		DefaultLimit int
		MaxLimit     int
	}

	Metrics struct {
		Enabled bool
	}

	Stats struct {
		CacheTTL        time.Duration
		RefreshInterval time.Duration
		RefreshTimeout  time.Duration
	}
}

func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{}

	// App
	cfg.App.Name = getEnv("APP_NAME", "lyftr-webhook")
	cfg.App.Env = getEnv("APP_ENV", "development")

	// API
	cfg.API.Host = getEnv("API_HOST", "0.0.0.0")
	cfg.API.Port = getEnv("API_PORT", "8000")

	// DB
	cfg.DB.Driver = getEnv("DB_DRIVER", "postgres")
	cfg.DB.Host = getEnv("DB_HOST", "db")
	cfg.DB.Port = getInt("DB_PORT", 5432)
	cfg.DB.User = getEnv("DB_USER", "root")
	cfg.DB.Password = getEnv("DB_PASSWORD", "123456")
	cfg.DB.Name = getEnv("DB_NAME", "db_webhook_messages")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	// Redis
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getInt("REDIS_DB", 0)

	// Webhook authentication
	cfg.Webhook.Secret = getEnv("WEBHOOK_SECRET", "")

	// Logging
	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")
	cfg.Log.File = getEnv("LOG_FILE", "")

	// Pagination
	cfg.Pagination.DefaultLimit = getInt("DEFAULT_PAGE_LIMIT", 50)
	cfg.Pagination.MaxLimit = getInt("MAX_PAGE_LIMIT", 100)

	// Metrics
	cfg.Metrics.Enabled = isTruthy(getEnv("ENABLE_METRICS", "true"))

	// Stats snapshot cache and background refresh
	cfg.Stats.CacheTTL = getDuration("STATS_CACHE_TTL", 30*time.Second)
	cfg.Stats.RefreshInterval = getDuration("STATS_REFRESH_INTERVAL", 15*time.Second)
	cfg.Stats.RefreshTimeout = getDuration("STATS_REFRESH_TIMEOUT", 5*time.Second)

	return cfg
}

func getEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}
