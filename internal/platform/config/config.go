package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EventStore backends.
const (
	EventStorePostgres = "postgres"
	EventStoreSQLite   = "sqlite"
	EventStoreMemory   = "memory"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr              string
	DatabaseURL       string
	EventStore        string
	SQLitePath        string
	JWTSigningKey     string
	JWTIssuer         string
	DisplayTimeZone   string
	ReferenceDataPath string
	LogLevel          string
	PersonCacheTTL    time.Duration
	AdminToken        string
	RateLimit         RateLimitConfig
	Redis             RedisConfig
}

// RateLimitConfig bounds change history reads per user. A zero limit
// disables limiting.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// RedisConfig configures the person directory cache. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:              getEnv("TRS_ADDR", ":8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		EventStore:        strings.ToLower(getEnv("EVENT_STORE", EventStoreMemory)),
		SQLitePath:        getEnv("SQLITE_PATH", "trs-events.db"),
		JWTSigningKey:     os.Getenv("JWT_SIGNING_KEY"),
		JWTIssuer:         getEnv("JWT_ISSUER", "trs"),
		DisplayTimeZone:   getEnv("DISPLAY_TIME_ZONE", "Europe/London"),
		ReferenceDataPath: os.Getenv("REFERENCE_DATA_PATH"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		AdminToken:        os.Getenv("ADMIN_TOKEN"),
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
	}
	if cfg.JWTSigningKey == "" {
		// Use a default for development - should be overridden in production
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}

	var err error
	if cfg.PersonCacheTTL, err = getDuration("PERSON_CACHE_TTL", 5*time.Minute); err != nil {
		return Server{}, err
	}
	if cfg.RateLimit.Requests, err = getInt("RATE_LIMIT_REQUESTS", 120); err != nil {
		return Server{}, err
	}
	if cfg.RateLimit.Window, err = getDuration("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return Server{}, err
	}
	if cfg.RateLimit.Requests < 0 {
		return Server{}, fmt.Errorf("RATE_LIMIT_REQUESTS must not be negative")
	}
	if cfg.Redis.PoolSize, err = getInt("REDIS_POOL_SIZE", 10); err != nil {
		return Server{}, err
	}
	if cfg.Redis.MinIdleConns, err = getInt("REDIS_MIN_IDLE_CONNS", 2); err != nil {
		return Server{}, err
	}
	if cfg.Redis.DialTimeout, err = getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.ReadTimeout, err = getDuration("REDIS_READ_TIMEOUT", 3*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.WriteTimeout, err = getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second); err != nil {
		return Server{}, err
	}

	switch cfg.EventStore {
	case EventStoreMemory, EventStoreSQLite:
	case EventStorePostgres:
		if cfg.DatabaseURL == "" {
			return Server{}, fmt.Errorf("EVENT_STORE=postgres requires DATABASE_URL")
		}
	default:
		return Server{}, fmt.Errorf("unsupported EVENT_STORE %q", cfg.EventStore)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
