package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL      string
	DBMaxConns       int32
	JWTSecret        string
	Port             string
	RedisURL         string
	TokenTTL         time.Duration
	ReportCacheTTL   time.Duration
	TenantUTCOffset  int
	PhoneRegion      string
	RateLimitSend    RateLimitConfig
	GatewayTimeout   time.Duration
	ChatPollInterval time.Duration
	LogLevel         string
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        getEnv("JWT_SECRET", "dev-secret"),
		Port:             getEnv("PORT", "8080"),
		RedisURL:         os.Getenv("REDIS_URL"),
		TokenTTL:         parseDuration(getEnv("JWT_TTL", "168h"), 168*time.Hour),
		ReportCacheTTL:   parseDuration(getEnv("REPORT_CACHE_TTL", "60s"), time.Minute),
		PhoneRegion:      strings.ToUpper(getEnv("PHONE_REGION", "BR")),
		GatewayTimeout:   parseDuration(getEnv("GATEWAY_TIMEOUT", "15s"), 15*time.Second),
		ChatPollInterval: parseDuration(getEnv("CHAT_POLL_INTERVAL", "5s"), 5*time.Second),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_SEND", "20/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SEND value: %w", err)
	}
	cfg.RateLimitSend = rl

	offset, err := parseOffset(getEnv("TENANT_UTC_OFFSET_HOURS", "-3"))
	if err != nil {
		return nil, fmt.Errorf("invalid TENANT_UTC_OFFSET_HOURS value: %w", err)
	}
	cfg.TenantUTCOffset = offset

	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "10"))
	if err != nil || maxConns <= 0 {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS value: %q", os.Getenv("DB_MAX_CONNS"))
	}
	cfg.DBMaxConns = int32(maxConns)

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

// parseOffset accepts whole hours between -12 and +14.
func parseOffset(value string) (int, error) {
	hours, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("expected whole hours, got %q", value)
	}
	if hours < -12 || hours > 14 {
		return 0, fmt.Errorf("offset %d out of range [-12, 14]", hours)
	}
	return hours, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
