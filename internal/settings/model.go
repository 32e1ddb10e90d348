package settings

import (
	"math"
	"strconv"
	"strings"

	"github.com/koustreak/BucketDesk/internal/filestore"
	"github.com/koustreak/BucketDesk/internal/keygen"
	"go.yaml.in/yaml/v3"
)

// Record names in the settings file.
const (
	StorageRecord     = "s3-settings"
	PreferencesRecord = "app-settings"
)

// StorageSettings are the user-supplied object storage credentials.
// An empty string means "unset".
type StorageSettings struct {
	Endpoint        string `yaml:"endpoint" validate:"required,http_url"`
	Bucket          string `yaml:"bucket" validate:"required"`
	AccessKeyID     string `yaml:"accKeyId" validate:"required"`
	SecretAccessKey string `yaml:"secretAccKey" validate:"required"`
	Region          string `yaml:"region"`
	KeyPrefix       string `yaml:"keyPrefix"`
	PublicURLBase   string `yaml:"pubUrl" validate:"omitempty,http_url"`
}

// DefaultStorageSettings returns the unset record.
func DefaultStorageSettings() StorageSettings {
	return StorageSettings{}
}

// FilestoreConfig converts the settings into a path-style filestore config.
// The provider is left for the connector to fill in.
func (s StorageSettings) FilestoreConfig() *filestore.Config {
	return &filestore.Config{
		Endpoint:      s.Endpoint,
		Bucket:        s.Bucket,
		AccessKey:     s.AccessKeyID,
		SecretKey:     s.SecretAccessKey,
		Region:        s.Region,
		KeyPrefix:     s.KeyPrefix,
		PublicURLBase: s.PublicURLBase,
		PathStyle:     true,
	}
}

// Redacted returns a copy safe to print: the secret keeps only its last
// four characters.
func (s StorageSettings) Redacted() StorageSettings {
	if n := len(s.SecretAccessKey); n > 0 {
		tail := ""
		if n > 8 {
			tail = s.SecretAccessKey[n-4:]
		}
		s.SecretAccessKey = strings.Repeat("*", 8) + tail
	}
	return s
}

// ConvertTypes are the formats the UI can convert images to before upload.
var ConvertTypes = []string{keygen.TypeNone, "webp", "jpeg", "png", "avif"}

// AppPreferences are the application's user preferences.
type AppPreferences struct {
	AutoRefreshEnabled      bool           `yaml:"enableAutoRefresh"`
	FuzzySearchEnabled      bool           `yaml:"enableFuzzySearch"`
	FuzzySearchThreshold    float64        `yaml:"fuzzySearchThreshold" validate:"gte=0,lte=1"`
	ConvertType             string         `yaml:"convertType" validate:"required,oneof=none webp jpeg png avif"`
	CompressionMaxSizeKB    NumberOrString `yaml:"compressionMaxSize" validate:"numeric_or_empty"`
	CompressionMaxDimension NumberOrString `yaml:"compressionMaxWidthOrHeight" validate:"numeric_or_empty"`
	KeyTemplate             string         `yaml:"keyTemplate"`
	HideRootPageOnce        bool           `yaml:"noLongerShowRootPage"`
}

// DefaultAppPreferences returns the preferences used on first start.
func DefaultAppPreferences() AppPreferences {
	return AppPreferences{
		AutoRefreshEnabled:   true,
		FuzzySearchEnabled:   true,
		FuzzySearchThreshold: 0.6,
		ConvertType:          keygen.TypeNone,
		KeyTemplate:          keygen.DefaultTemplate,
		HideRootPageOnce:     true,
	}
}

// NumberOrString holds a setting the UI may store either as a number or as
// text. The empty value means "no limit".
type NumberOrString string

// Float returns the numeric value, if there is one.
func (n NumberOrString) Float() (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// UnmarshalYAML accepts a number, a string or null.
func (n *NumberOrString) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return &yaml.TypeError{Errors: []string{"compression limit must be a number or a string"}}
	}
	if value.Tag == "!!null" {
		*n = ""
		return nil
	}
	*n = NumberOrString(value.Value)
	return nil
}

// MarshalYAML writes numeric values as YAML numbers and anything else as a string.
func (n NumberOrString) MarshalYAML() (any, error) {
	s := strings.TrimSpace(string(n))
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	if f, ok := n.Float(); ok {
		return f, nil
	}
	return string(n), nil
}
