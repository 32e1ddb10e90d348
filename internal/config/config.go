// Package config loads BucketDesk's runtime configuration from environment
// variables, optionally seeded from a .env file in the working directory.
//
// Runtime configuration is everything that is not a user setting: where the
// settings file lives, which driver talks to the bucket, logging and the
// transfer timeout. User settings live in the settings file itself.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/koustreak/BucketDesk/internal/errs"
	"github.com/koustreak/BucketDesk/internal/filestore"
)

// Environment variable names.
const (
	EnvSettingsFile    = "BUCKETDESK_SETTINGS_FILE"
	EnvProvider        = "BUCKETDESK_PROVIDER"
	EnvLogLevel        = "BUCKETDESK_LOG_LEVEL"
	EnvLogFormat       = "BUCKETDESK_LOG_FORMAT"
	EnvTransferTimeout = "BUCKETDESK_TRANSFER_TIMEOUT"
)

// DefaultTransferTimeout bounds a single presigned upload.
const DefaultTransferTimeout = 5 * time.Minute

// Config holds the runtime configuration.
type Config struct {
	SettingsFile    string
	Provider        filestore.Provider
	LogLevel        string
	LogFormat       string
	TransferTimeout time.Duration
}

// Load reads a .env file (if present) and then the environment.
func Load() (*Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the environment only.
func FromEnv() (*Config, error) {
	settingsFile := os.Getenv(EnvSettingsFile)
	if settingsFile == "" {
		var err error
		if settingsFile, err = DefaultSettingsFile(); err != nil {
			return nil, err
		}
	}

	timeout := DefaultTransferTimeout
	if v := os.Getenv(EnvTransferTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, EnvTransferTimeout+" is not a duration", err)
		}
		if d <= 0 {
			return nil, errs.New(errs.ErrKindInvalidInput, EnvTransferTimeout+" must be positive")
		}
		timeout = d
	}

	cfg := &Config{
		SettingsFile:    settingsFile,
		Provider:        filestore.Provider(getEnv(EnvProvider, string(filestore.ProviderS3))),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		LogFormat:       getEnv(EnvLogFormat, "console"),
		TransferTimeout: timeout,
	}

	switch cfg.Provider {
	case filestore.ProviderS3, filestore.ProviderMinIO:
	default:
		return nil, errs.New(errs.ErrKindInvalidInput, EnvProvider+" must be s3 or minio, got "+string(cfg.Provider))
	}

	return cfg, nil
}

// DefaultSettingsFile is settings.yaml under the user's config directory.
func DefaultSettingsFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errs.Wrap(errs.ErrKindNotFound, "no user config directory", err)
	}
	return filepath.Join(dir, "bucketdesk", "settings.yaml"), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
