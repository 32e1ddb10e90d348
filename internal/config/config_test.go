package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/koustreak/BucketDesk/internal/errs"
	"github.com/koustreak/BucketDesk/internal/filestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{EnvSettingsFile, EnvProvider, EnvLogLevel, EnvLogFormat, EnvTransferTimeout} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	want, err := DefaultSettingsFile()
	require.NoError(t, err)

	assert.Equal(t, want, cfg.SettingsFile)
	assert.True(t, strings.HasSuffix(want, filepath.Join("bucketdesk", "settings.yaml")))
	assert.Equal(t, filestore.ProviderS3, cfg.Provider)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, DefaultTransferTimeout, cfg.TransferTimeout)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv(EnvSettingsFile, "/tmp/bd.yaml")
	t.Setenv(EnvProvider, "minio")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvTransferTimeout, "30s")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, &Config{
		SettingsFile:    "/tmp/bd.yaml",
		Provider:        filestore.ProviderMinIO,
		LogLevel:        "debug",
		LogFormat:       "json",
		TransferTimeout: 30 * time.Second,
	}, cfg)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unparsable timeout", EnvTransferTimeout, "soon"},
		{"zero timeout", EnvTransferTimeout, "0s"},
		{"unknown provider", EnvProvider, "gcs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvSettingsFile, "/tmp/bd.yaml")
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			assert.True(t, errs.IsInvalidInput(err))
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BUCKETDESK_LOG_LEVEL=warn\n"), 0o600))
	t.Chdir(dir)
	t.Setenv(EnvSettingsFile, "/tmp/bd.yaml")
	t.Setenv(EnvLogLevel, "")
	// godotenv does not override variables that are already set, even empty.
	require.NoError(t, os.Unsetenv(EnvLogLevel))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}
