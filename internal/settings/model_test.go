package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/koustreak/BucketDesk/internal/keygen"
	"github.com/koustreak/BucketDesk/internal/kvfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func TestDefaultAppPreferences(t *testing.T) {
	p := DefaultAppPreferences()

	assert.True(t, p.AutoRefreshEnabled)
	assert.True(t, p.FuzzySearchEnabled)
	assert.Equal(t, 0.6, p.FuzzySearchThreshold)
	assert.Equal(t, keygen.TypeNone, p.ConvertType)
	assert.Equal(t, keygen.DefaultTemplate, p.KeyTemplate)
	assert.True(t, p.HideRootPageOnce)
	assert.Empty(t, p.CompressionMaxSizeKB)
}

func TestNumberOrString_YAML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		value    NumberOrString
		encoded  string
	}{
		{"integer", "v: 512\n", "512", "v: 512\n"},
		{"float", "v: 1.5\n", "1.5", "v: 1.5\n"},
		{"numeric string", "v: \"2048\"\n", "2048", "v: 2048\n"},
		{"empty string", "v: \"\"\n", "", "v: \"\"\n"},
		{"null", "v: null\n", "", "v: \"\"\n"},
		{"text", "v: big\n", "big", "v: big\n"},
		{"infinity stays text", "v: inf\n", "inf", "v: inf\n"},
		{"infinity spelled out", "v: Infinity\n", "Infinity", "v: Infinity\n"},
		{"nan stays text", "v: nan\n", "nan", "v: nan\n"},
	}

	type wrapper struct {
		V NumberOrString `yaml:"v"`
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w wrapper
			require.NoError(t, yaml.Unmarshal([]byte(tt.input), &w))
			assert.Equal(t, tt.value, w.V)

			out, err := yaml.Marshal(w)
			require.NoError(t, err)
			assert.Equal(t, tt.encoded, string(out))
		})
	}
}

func TestNumberOrString_RejectsSequence(t *testing.T) {
	var w struct {
		V NumberOrString `yaml:"v"`
	}
	assert.Error(t, yaml.Unmarshal([]byte("v: [1, 2]\n"), &w))
}

func TestRecords_RoundTripThroughFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	f := kvfile.Open(path)

	prefs := DefaultAppPreferences()
	prefs.ConvertType = "webp"
	prefs.CompressionMaxSizeKB = "512"
	prefs.FuzzySearchThreshold = 0.25

	require.NoError(t, f.Save(PreferencesRecord, prefs))
	require.NoError(t, f.Save(StorageRecord, validStorage()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "compressionMaxSize: 512\n")
	assert.Contains(t, string(raw), "accKeyId: AKIAEXAMPLE\n")

	var gotPrefs AppPreferences
	var gotStorage StorageSettings
	_, err = f.Load(PreferencesRecord, &gotPrefs)
	require.NoError(t, err)
	_, err = f.Load(StorageRecord, &gotStorage)
	require.NoError(t, err)

	assert.Equal(t, prefs, gotPrefs)
	assert.Equal(t, validStorage(), gotStorage)
}

func TestStorageSettings_FilestoreConfig(t *testing.T) {
	cfg := validStorage().FilestoreConfig()

	assert.Equal(t, "https://s3.us-east-1.amazonaws.com", cfg.Endpoint)
	assert.Equal(t, "photos", cfg.Bucket)
	assert.Equal(t, "AKIAEXAMPLE", cfg.AccessKey)
	assert.Equal(t, "secret-example-key", cfg.SecretKey)
	assert.Equal(t, "imgs", cfg.KeyPrefix)
	assert.Equal(t, "https://cdn.example.com", cfg.PublicURLBase)
	assert.True(t, cfg.PathStyle)
}

func TestStorageSettings_Redacted(t *testing.T) {
	assert.Equal(t, "********-key", validStorage().Redacted().SecretAccessKey)
	assert.Equal(t, "********", StorageSettings{SecretAccessKey: "short"}.Redacted().SecretAccessKey)
	assert.Empty(t, StorageSettings{}.Redacted().SecretAccessKey)
}
