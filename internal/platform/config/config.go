// Package config loads application configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	defaultPort          = "8080"
	defaultJWTExpiration = 24 * time.Hour
	defaultCacheTTL      = 5 * time.Minute

	// defaultEmailRegex accepts the conventional local@domain.tld shape.
	defaultEmailRegex = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`

	// defaultPasswordRegex allows letters, digits, and common symbols with a
	// minimum length of 8. RE2 has no lookahead, so character-class
	// composition rules (one upper, one digit, ...) must be expressed by the
	// deployment's own pattern if required.
	defaultPasswordRegex = `^[A-Za-z0-9@$!%*?&#._\-]{8,}$`
)

// Config holds all runtime configuration consumed by the application.
type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	CacheTTL      time.Duration

	JWTSecret     string
	JWTExpiration time.Duration

	EmailRegex    string
	PasswordRegex string

	// RateLimitPerMinute caps requests per client per minute. Zero disables
	// the limiter.
	RateLimitPerMinute int
}

// Load reads configuration from environment variables, applying defaults
// for everything except credentials.
func Load() Config {
	return Config{
		Port: getEnv("PORT", defaultPort),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CacheTTL:      getEnvDuration("CACHE_TTL_SECONDS", defaultCacheTTL),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTExpiration: getEnvDuration("JWT_EXPIRATION_SECONDS", defaultJWTExpiration),

		EmailRegex:    getEnv("EMAIL_REGEX", defaultEmailRegex),
		PasswordRegex: getEnv("PASSWORD_REGEX", defaultPasswordRegex),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 0),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}
