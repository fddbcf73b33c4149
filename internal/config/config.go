package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Cache    CacheConfig
	PubSub   PubSubConfig
	Log      LogConfig
}

type LogConfig struct {
	Level string
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// UpstreamConfig points at the sheet query service that owns the raw
// schedule collection and event configuration.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CacheConfig controls timezone fallback and the optional redis snapshot
// layer. DefaultZone is resolved once at startup; requests that carry no
// zone use it, so prerendered and interactive responses agree.
type CacheConfig struct {
	DefaultZone string
	RedisAddr   string
	SnapshotTTL time.Duration
}

type PubSubConfig struct {
	NatsURL string
}

func Load() (*Config, error) {
	serverPort, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	readTimeout, err := time.ParseDuration(getEnv("SERVER_READ_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("SERVER_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_WRITE_TIMEOUT: %w", err)
	}

	upstreamTimeout, err := time.ParseDuration(getEnv("UPSTREAM_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT: %w", err)
	}

	snapshotTTL, err := time.ParseDuration(getEnv("SNAPSHOT_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SNAPSHOT_TTL: %w", err)
	}

	baseURL := os.Getenv("UPSTREAM_BASE_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("UPSTREAM_BASE_URL environment variable is required")
	}

	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         serverPort,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		Upstream: UpstreamConfig{
			BaseURL: baseURL,
			Timeout: upstreamTimeout,
		},
		Cache: CacheConfig{
			DefaultZone: getEnv("DEFAULT_TIMEZONE", "UTC"),
			RedisAddr:   os.Getenv("REDIS_ADDR"),
			SnapshotTTL: snapshotTTL,
		},
		PubSub: PubSubConfig{
			NatsURL: os.Getenv("NATS_URL"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
