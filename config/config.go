package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server ServerConfig
	Stream StreamConfig
	Redis  RedisConfig
}

// ServerConfig holds the operator console HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// StreamConfig points at the remote streaming service.
type StreamConfig struct {
	BaseURL        string
	RequestTimeout time.Duration // 0 = no client timeout; uploads can be long
	PollInterval   time.Duration
}

// RedisConfig holds the optional event fan-out settings. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// Enabled reports whether console events should be published to Redis.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 0),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3001"),
		},
		Stream: StreamConfig{
			BaseURL:        strings.TrimRight(getEnv("STREAM_SERVICE_URL", "http://localhost:3000"), "/"),
			RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 0)) * time.Second,
			PollInterval:   time.Duration(getEnvInt("POLL_INTERVAL_SEC", 5)) * time.Second,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Channel:  getEnv("REDIS_CHANNEL", "streamflow:console"),
		},
	}
	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
