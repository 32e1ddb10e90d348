package filestore

import (
	"net/url"

	"github.com/koustreak/BucketDesk/internal/errs"
)

// Provider identifies the SDK used to talk to the object store.
type Provider string

const (
	ProviderS3    Provider = "s3"
	ProviderMinIO Provider = "minio"
)

// Config holds everything needed to reach one bucket.
type Config struct {
	// Provider selects the driver. Both speak the S3 protocol.
	Provider Provider

	// Endpoint is the absolute base URL of the service,
	// e.g. "https://s3.us-east-1.amazonaws.com" or "http://localhost:9000".
	Endpoint string

	// Bucket is the bucket every operation targets.
	Bucket string

	AccessKey string
	SecretKey string

	// Region is optional for MinIO; S3 falls back to us-east-1.
	Region string

	// KeyPrefix is substituted for {{prefix}} when the upload path has to
	// generate a key on its own.
	KeyPrefix string

	// PublicURLBase, when set, replaces endpoint/bucket in public URLs
	// (a CDN or custom domain in front of the bucket).
	PublicURLBase string

	// PathStyle addresses buckets as endpoint/bucket instead of bucket.endpoint.
	PathStyle bool
}

// DefaultConfig returns a path-style S3 config for the given endpoint and bucket.
func DefaultConfig(endpoint, bucket, accessKey, secretKey string) *Config {
	return &Config{
		Provider:  ProviderS3,
		Endpoint:  endpoint,
		Bucket:    bucket,
		AccessKey: accessKey,
		SecretKey: secretKey,
		PathStyle: true,
	}
}

// Validate checks the fields every driver needs.
func (c *Config) Validate() error {
	switch {
	case c.Endpoint == "":
		return errs.New(errs.ErrKindInvalidInput, "endpoint is required")
	case c.Bucket == "":
		return errs.New(errs.ErrKindInvalidInput, "bucket is required")
	case c.AccessKey == "" || c.SecretKey == "":
		return errs.New(errs.ErrKindInvalidInput, "access key and secret key are required")
	}
	if _, _, err := c.HostAndSecure(); err != nil {
		return err
	}
	return nil
}

// HostAndSecure splits Endpoint into host[:port] and whether TLS is used.
// Endpoint must be an absolute http or https URL.
func (c *Config) HostAndSecure() (string, bool, error) {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return "", false, errs.Wrap(errs.ErrKindInvalidInput, "invalid endpoint", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false, errs.New(errs.ErrKindInvalidInput, "endpoint must be an http or https URL")
	}
	return u.Host, u.Scheme == "https", nil
}
