// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	AccessToken string
	Account     string
	Password    string
	DeviceID    string
	DBPath      string
	// SecretKey is the 32-byte AES-256 key for stored sessions; nil disables
	// session persistence.
	SecretKey   []byte
	OTPFile     string
	// MetricsFile receives request metrics in the Prometheus text format on
	// exit; empty disables the export.
	MetricsFile string
	HTTPTimeout time.Duration
	LogLevel    slog.Level
	TrustDevice bool
}

// HasSecretKey reports whether session persistence is enabled.
func (c *Config) HasSecretKey() bool {
	return len(c.SecretKey) > 0
}

// Load reads configuration from environment variables and returns a validated Config.
// All variables are optional. VENMO_ACCESS_TOKEN, VENMO_ACCOUNT, VENMO_PASSWORD,
// VENMO_DEVICE_ID, VENMO_SECRET_KEY (64 hex characters), VENMO_OTP_FILE and
// VENMO_METRICS_FILE have no default.
// Variables with defaults: VENMO_DB_PATH (venmo.db), VENMO_HTTP_TIMEOUT (30s),
// VENMO_LOG_LEVEL (info), VENMO_TRUST_DEVICE (true).
func Load() (*Config, error) {
	cfg := &Config{
		AccessToken: os.Getenv("VENMO_ACCESS_TOKEN"),
		Account:     os.Getenv("VENMO_ACCOUNT"),
		Password:    os.Getenv("VENMO_PASSWORD"),
		DeviceID:    os.Getenv("VENMO_DEVICE_ID"),
		OTPFile:     os.Getenv("VENMO_OTP_FILE"),
		MetricsFile: os.Getenv("VENMO_METRICS_FILE"),
		DBPath:      "venmo.db",
		HTTPTimeout: 30 * time.Second,
		LogLevel:    slog.LevelInfo,
		TrustDevice: true,
	}

	if v, ok := os.LookupEnv("VENMO_DB_PATH"); ok && v != "" {
		cfg.DBPath = v
	}

	if v, ok := os.LookupEnv("VENMO_SECRET_KEY"); ok && v != "" {
		key, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("VENMO_SECRET_KEY is not valid hex: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("VENMO_SECRET_KEY must be 64 hex characters (32 bytes), got %d bytes", len(key))
		}
		cfg.SecretKey = key
	}

	if v, ok := os.LookupEnv("VENMO_HTTP_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("VENMO_HTTP_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("VENMO_HTTP_TIMEOUT must be positive, got %s", parsed)
		}
		cfg.HTTPTimeout = parsed
	}

	if v, ok := os.LookupEnv("VENMO_LOG_LEVEL"); ok && v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(strings.ToUpper(v))); err != nil {
			return nil, fmt.Errorf("VENMO_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	if v, ok := os.LookupEnv("VENMO_TRUST_DEVICE"); ok && v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("VENMO_TRUST_DEVICE has invalid boolean %q: %w", v, err)
		}
		cfg.TrustDevice = parsed
	}

	return cfg, nil
}
