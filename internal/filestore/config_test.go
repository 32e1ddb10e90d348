package filestore

import (
	"testing"

	"github.com/koustreak/BucketDesk/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	valid := DefaultConfig("https://s3.example.com", "b", "ak", "sk")
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing endpoint", func(c *Config) { c.Endpoint = "" }},
		{"missing bucket", func(c *Config) { c.Bucket = "" }},
		{"missing secret", func(c *Config) { c.SecretKey = "" }},
		{"bad endpoint", func(c *Config) { c.Endpoint = "http://" }},
		{"endpoint without scheme", func(c *Config) { c.Endpoint = "s3.example.com" }},
		{"endpoint with other scheme", func(c *Config) { c.Endpoint = "ftp://s3.example.com" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			tt.mutate(&cfg)
			assert.True(t, errs.IsInvalidInput(cfg.Validate()))
		})
	}
}

func TestConfig_HostAndSecure(t *testing.T) {
	tests := []struct {
		endpoint string
		host     string
		secure   bool
	}{
		{"https://s3.example.com", "s3.example.com", true},
		{"http://localhost:9000", "localhost:9000", false},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			host, secure, err := (&Config{Endpoint: tt.endpoint}).HostAndSecure()
			require.NoError(t, err)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.secure, secure)
		})
	}
}

func TestConfig_HostAndSecure_RequiresScheme(t *testing.T) {
	for _, endpoint := range []string{"localhost:9000", "s3.example.com", "//s3.example.com"} {
		_, _, err := (&Config{Endpoint: endpoint}).HostAndSecure()
		assert.True(t, errs.IsInvalidInput(err), endpoint)
	}
}
