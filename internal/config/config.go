package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Open-Meteo endpoints and client behavior.
	GeocodingURL string
	ArchiveURL   string
	FetchTimeout time.Duration

	// Size of the memoized analysis result cache.
	ResultCacheSize int
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("RESULT_CACHE_SIZE", 128)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		GeocodingURL:    envOrDefault("OPENMETEO_GEOCODING_URL", "https://geocoding-api.open-meteo.com/v1/search"),
		ArchiveURL:      envOrDefault("OPENMETEO_ARCHIVE_URL", "https://archive-api.open-meteo.com/v1/era5"),
		FetchTimeout:    fetchTimeout,
		ResultCacheSize: cacheSize,
	}

	if cfg.GeocodingURL == "" {
		return nil, errors.New("OPENMETEO_GEOCODING_URL is required")
	}
	if cfg.ArchiveURL == "" {
		return nil, errors.New("OPENMETEO_ARCHIVE_URL is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
