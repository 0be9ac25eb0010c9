package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIURL   string
	HTTPPort string
	LogLevel string

	RedisAddr        string
	CategoryCacheTTL time.Duration
	LoginRateLimit   int

	SessionSecret string
	FlashSecret   string
	CookieSecure  bool
	SessionTTL    time.Duration

	RequestTimeout   time.Duration
	RetryAttempts    int
	RetryDelay       time.Duration
	BreakerThreshold int
	BreakerTimeout   time.Duration

	PageSize int
}

// Load reads envFile (if present) into the process environment and then
// builds the configuration from it. Variables already set win over the file.
func Load(envFile string) *Config {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			slog.Info("env file not loaded, using process environment", "file", envFile, "error", err)
		}
	}
	return NewConfig()
}

func NewConfig() *Config {
	return &Config{
		APIURL:   strings.TrimRight(getEnv("API_URL", "http://localhost:5555"), "/"),
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		RedisAddr:        getEnv("REDIS_ADDR", ""),
		CategoryCacheTTL: getEnvDuration("CATEGORY_CACHE_TTL", 5*time.Minute),
		LoginRateLimit:   getEnvInt("LOGIN_RATE_LIMIT", 10),

		SessionSecret: getEnv("SESSION_SECRET", "dev-session-secret"),
		FlashSecret:   getEnv("FLASH_SECRET", "dev-flash-secret"),
		CookieSecure:  getEnvBool("COOKIE_SECURE", false),
		SessionTTL:    getEnvDuration("SESSION_TTL", 30*24*time.Hour),

		RequestTimeout:   getEnvDuration("REQUEST_TIMEOUT", 5*time.Second),
		RetryAttempts:    getEnvInt("RETRY_ATTEMPTS", 3),
		RetryDelay:       getEnvDuration("RETRY_DELAY", 300*time.Millisecond),
		BreakerThreshold: getEnvInt("BREAKER_THRESHOLD", 5),
		BreakerTimeout:   getEnvDuration("BREAKER_TIMEOUT", 10*time.Second),

		PageSize: getEnvInt("PAGE_SIZE", 6),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", v)
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v)
		return fallback
	}
	return d
}
