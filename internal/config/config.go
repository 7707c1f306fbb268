package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr        string
	DBConnString    string
	ShutdownTimeout time.Duration

	// Price resolution endpoint; SetupKey authenticates every call.
	PricingBaseURL string
	PricingKey     string
	PricingTimeout time.Duration

	// AMQPURL is the broker for submitted orders; empty disables publishing.
	AMQPURL string

	AllowedOrigins []string
}

// FromEnv builds Config with defaults, overridden by environment variables.
// DB_DSN may be empty, in which case the API runs on in-memory storage.
func FromEnv() Config {
	return Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		DBConnString:    envOrDefault("DB_DSN", ""),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		PricingBaseURL:  envOrDefault("PRICING_BASE_URL", "http://localhost:9090"),
		PricingKey:      envOrDefault("PRICING_SETUP_KEY", ""),
		PricingTimeout:  envDuration("PRICING_TIMEOUT_SECONDS", 20*time.Second),
		AMQPURL:         envOrDefault("AMQP_URL", ""),
		AllowedOrigins:  envList("ALLOWED_ORIGINS"),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
