package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/tokensmith/pkg/jwtx"
	"github.com/aussiebroadwan/tokensmith/pkg/metricx"
)

type Config struct {
	EnvelopeSecret     string // TOKENS_ENVELOPE_SECRET: key for the ENCRYPTED_* token layer
	EnvelopeSecretPath string // Optional: file holding the envelope secret
	EnvelopeSalt       string // Optional: argon2id salt for the envelope key (default: tokensmith-envelope)
	MasterKey          string // TOKENS_MASTER_KEY: seals client secrets at rest
	MasterKeyPath      string // Optional: file holding the master key
	DatabaseFile       string // Optional: path to SQLite database file (default: ./tokens.db)
	APIKeyHash         string // argon2id hash of the operator API key (see cmd/keygen -api-key)

	DefaultTTL           time.Duration // Token lifetime when the caller sends none (default: 15m)
	MaxTTL               time.Duration // Upper bound on token lifetimes (default: 24h)
	ClockLeeway          time.Duration // Allowed clock skew when checking exp (default: 0)
	ClientCacheTTL       time.Duration // How long opened client policies stay in memory (default: 5m)
	HousekeepingInterval time.Duration // Cache purge interval (default: 1m)

	RedisAddr     string // Optional: host:port of a Redis shared by replicas for rate limiting
	RedisPassword string // Optional: Redis password
	RedisDB       int    // Optional: Redis database number (default: 0)

	MetricsExporter string // none, stdout, otlp or prometheus (default: none)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		EnvelopeSecret:     os.Getenv("TOKENS_ENVELOPE_SECRET"),
		EnvelopeSecretPath: os.Getenv("TOKENS_ENVELOPE_SECRET_PATH"),
		EnvelopeSalt:       getEnvOrDefault("TOKENS_ENVELOPE_SALT", "tokensmith-envelope"),
		MasterKey:          os.Getenv("TOKENS_MASTER_KEY"),
		MasterKeyPath:      os.Getenv("TOKENS_MASTER_KEY_PATH"),
		DatabaseFile:       getEnvOrDefault("TOKENS_DATABASE_FILE", "tokens.db"),
		APIKeyHash:         os.Getenv("TOKENS_API_KEY_HASH"),

		DefaultTTL:           getEnvDurationOrDefault("TOKENS_DEFAULT_TTL", jwtx.DefaultTokenTTL),
		MaxTTL:               getEnvDurationOrDefault("TOKENS_MAX_TTL", jwtx.MaxTokenTTL),
		ClockLeeway:          getEnvDurationOrDefault("TOKENS_CLOCK_LEEWAY", 0),
		ClientCacheTTL:       getEnvDurationOrDefault("TOKENS_CLIENT_CACHE_TTL", 5*time.Minute),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Minute),

		RedisAddr:     os.Getenv("TOKENS_REDIS_ADDR"),
		RedisPassword: os.Getenv("TOKENS_REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("TOKENS_REDIS_DB", 0),

		MetricsExporter: getEnvOrDefault("METRICS_EXPORTER", metricx.ExporterNone),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// IsDev reports whether missing secrets may be replaced with throwaway ones.
func (c Config) IsDev() bool { return c.Env == "dev" }

// Validate checks the settings that cannot be defaulted.
func (c Config) Validate() error {
	var errs []error

	if c.DefaultTTL < time.Second {
		errs = append(errs, fmt.Errorf("TOKENS_DEFAULT_TTL must be at least 1s, got %s", c.DefaultTTL))
	}
	if c.MaxTTL < c.DefaultTTL {
		errs = append(errs, fmt.Errorf("TOKENS_MAX_TTL (%s) is shorter than TOKENS_DEFAULT_TTL (%s)", c.MaxTTL, c.DefaultTTL))
	}
	if c.ClockLeeway < 0 {
		errs = append(errs, errors.New("TOKENS_CLOCK_LEEWAY must not be negative"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	if c.RedisDB < 0 {
		errs = append(errs, fmt.Errorf("TOKENS_REDIS_DB must not be negative, got %d", c.RedisDB))
	}
	if c.EnvelopeSalt == "" {
		errs = append(errs, errors.New("TOKENS_ENVELOPE_SALT must not be empty"))
	}
	if !c.IsDev() && c.APIKeyHash == "" {
		errs = append(errs, errors.New("TOKENS_API_KEY_HASH is required outside dev"))
	}
	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
