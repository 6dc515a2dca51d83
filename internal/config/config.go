// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used by the server and
// the maintenance commands.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Catalog files
	CatalogPath string // JSON document holding all parts
	ExportPath  string // CSV written by the export job
	ImageDir    string // directory served under /img/
	SortLocale  string // BCP 47 tag used to order category names

	// Mutating API requests allowed per client per minute, 0 disables the limit
	APIRateLimit int

	// Valkey (Redis-compatible cache), disabled when ValkeyHost is empty
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// S3-compatible storage for published exports, disabled when unset
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string
}

// LoadDotEnv loads variables from a .env file in the working directory
// unless APP_ENV is "production". Variables already set in the environment
// take precedence. A missing file is not an error.
func LoadDotEnv() error {
	if os.Getenv("APP_ENV") == "production" {
		return nil
	}
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load .env: %w", err)
	}
	slog.Debug("loaded environment from .env")
	return nil
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "5000"),
		Env:  envOrDefault("APP_ENV", "development"),

		CatalogPath: envOrDefault("CATALOG_PATH", "parts.json"),
		ExportPath:  envOrDefault("EXPORT_PATH", "ElectronicParts.csv"),
		ImageDir:    envOrDefault("IMAGE_DIR", "img"),
		SortLocale:  envOrDefault("SORT_LOCALE", "pl"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),
	}

	limit, err := strconv.Atoi(envOrDefault("API_RATE_LIMIT", "120"))
	if err != nil || limit < 0 {
		return nil, fmt.Errorf("API_RATE_LIMIT must be a non-negative integer, got %q", os.Getenv("API_RATE_LIMIT"))
	}
	cfg.APIRateLimit = limit

	if _, err := language.Parse(cfg.SortLocale); err != nil {
		return nil, fmt.Errorf("SORT_LOCALE %q: %w", cfg.SortLocale, err)
	}

	if cfg.Env == "production" {
		if cfg.S3Endpoint != "" && cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET must be set in production when S3_ENDPOINT is set")
		}
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Locale returns the parsed sort locale. Load has already validated it.
func (c *Config) Locale() language.Tag {
	return language.Make(c.SortLocale)
}

// CacheEnabled reports whether a Valkey host is configured.
func (c *Config) CacheEnabled() bool {
	return c.ValkeyHost != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
