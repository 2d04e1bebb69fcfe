package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort  string
	LogLevel string
	LogJSON  bool

	// Sessions
	SessionSecret  string
	SessionIdleTTL time.Duration
	AllowedOrigin  string

	// Redis (rate limiting only; empty addr disables it)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Rate limits
	APIRateLimit   int
	APIRateWindow  time.Duration
	GameRateLimit  int
	GameRateWindow time.Duration
}

// Default returns the configuration used when no env is set.
func Default() *Config {
	return &Config{
		AppPort:        "8080",
		LogLevel:       "info",
		SessionIdleTTL: time.Hour,
		APIRateLimit:   120,
		APIRateWindow:  time.Minute,
		GameRateLimit:  60,
		GameRateWindow: time.Minute,
	}
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	cfg := Default()

	if v := os.Getenv("APP_PORT"); v != "" {
		cfg.AppPort = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	cfg.LogJSON = os.Getenv("LOG_JSON") == "true"

	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	cfg.SessionIdleTTL = seconds("SESSION_IDLE_TTL", cfg.SessionIdleTTL)
	cfg.AllowedOrigin = os.Getenv("ALLOWED_ORIGIN")

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RedisDB = n
		}
	}

	cfg.APIRateLimit = positive("API_RATE_LIMIT", cfg.APIRateLimit)
	cfg.APIRateWindow = seconds("API_RATE_WINDOW", cfg.APIRateWindow)
	cfg.GameRateLimit = positive("GAME_RATE_LIMIT", cfg.GameRateLimit)
	cfg.GameRateWindow = seconds("GAME_RATE_WINDOW", cfg.GameRateWindow)

	return cfg
}

func positive(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// seconds parses a whole number of seconds.
func seconds(key string, def time.Duration) time.Duration {
	if n := positive(key, 0); n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
