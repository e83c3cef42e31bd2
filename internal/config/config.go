// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Sensible defaults are provided for development.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string

	// Port is the HTTP listen port (default: 8080).
	Port int

	// BaseURL is the public-facing URL used when the request carries no
	// forwarding headers (magic-link construction falls back to this).
	BaseURL string

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string

	// Redis holds Redis connection settings.
	Redis RedisConfig

	// Mail holds Brevo transactional email settings.
	Mail MailConfig

	// Cloudinary holds image hosting credentials.
	Cloudinary CloudinaryConfig

	// Auth holds authentication-related settings.
	Auth AuthConfig

	// Admin holds danger-zone endpoint settings.
	Admin AdminConfig
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	URL string
}

// MailConfig holds Brevo (transactional email) settings.
type MailConfig struct {
	// APIKey is the Brevo API key. Empty means email sending is not
	// configured; magic-link requests fail with a configuration error.
	APIKey string

	// SenderName is the display name on outgoing mail.
	SenderName string

	// SenderAddress is the from-address on outgoing mail.
	SenderAddress string
}

// CloudinaryConfig holds image host credentials.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	// MagicLinkTTL is how long a magic-link token stays redeemable.
	MagicLinkTTL time.Duration
}

// AdminConfig holds settings for the administrative danger-zone endpoints.
type AdminConfig struct {
	// ClearSecret guards the clear-all endpoint. Requests must supply it.
	ClearSecret string
}

// Load reads configuration from environment variables with sensible defaults.
// An optional .env file in the working directory is loaded first so local
// development works without exporting anything.
func Load() (*Config, error) {
	// Missing .env is fine -- real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		BaseURL:  getEnv("BASE_URL", "http://localhost:8080"),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},

		Mail: MailConfig{
			APIKey:        getEnv("BREVO_API_KEY", ""),
			SenderName:    getEnv("MAIL_SENDER_NAME", "SYUDA"),
			SenderAddress: getEnv("MAIL_SENDER_ADDRESS", "noreply@suydacity.ru"),
		},

		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		},

		Auth: AuthConfig{
			MagicLinkTTL: getEnvDuration("MAGIC_LINK_TTL", 15*time.Minute),
		},

		Admin: AdminConfig{
			ClearSecret: getEnv("CLEAR_SECRET", ""),
		},
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// --- Helper functions for reading environment variables ---

// getEnv reads a string env var or returns the default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer env var or returns the default.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration env var (e.g., "15m") or returns the default.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
