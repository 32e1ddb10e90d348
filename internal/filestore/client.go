package filestore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/koustreak/BucketDesk/internal/errs"
	"github.com/koustreak/BucketDesk/internal/keygen"
	"github.com/koustreak/BucketDesk/internal/logger"
)

const (
	// PresignExpiry is how long a presigned upload URL stays valid.
	PresignExpiry = time.Hour

	defaultContentType = "application/octet-stream"
)

// Client binds a Store to one bucket configuration.
type Client struct {
	store  Store
	cfg    Config
	http   *http.Client
	keys   keygen.Generator
	log    *logger.Logger
	expiry time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient sets the client used for presigned transfers.
// Its Timeout bounds each transfer.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the client's logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithKeyGenerator replaces the generator used for fallback keys.
func WithKeyGenerator(g keygen.Generator) Option {
	return func(c *Client) { c.keys = g }
}

// NewClient returns a Client for cfg backed by store.
func NewClient(store Store, cfg *Config, opts ...Option) *Client {
	c := &Client{
		store:  store,
		cfg:    *cfg,
		http:   http.DefaultClient,
		log:    logger.Nop(),
		expiry: PresignExpiry,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().Str("bucket", cfg.Bucket).Logger()
	return c
}

// Close releases the underlying Store.
func (c *Client) Close() error {
	return c.store.Close()
}

// ListObjects lists the whole bucket. With onlyOnce it returns after the
// first page, which is enough to prove the credentials can list.
func (c *Client) ListObjects(ctx context.Context, onlyOnce bool) ([]ObjectInfo, error) {
	c.log.Debugf("listing objects (first page only: %t)", onlyOnce)
	return c.store.ListObjects(ctx, c.cfg.Bucket, ListOptions{
		Recursive:     true,
		FirstPageOnly: onlyOnce,
	})
}

// DeleteObject removes key from the bucket.
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return errs.New(errs.ErrKindInvalidInput, "object key is required")
	}
	return c.store.RemoveObject(ctx, c.cfg.Bucket, key)
}

// ResolveKeyToURL returns the public URL of key.
func (c *Client) ResolveKeyToURL(key string) string {
	return ResolveKeyToURL(key, c.cfg)
}

// PresignGetURL returns a time-limited download URL for key.
func (c *Client) PresignGetURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return c.store.PresignGetURL(ctx, c.cfg.Bucket, key, ttl)
}

// UploadObject PUTs file to a presigned URL for key.
//
// An empty key is replaced by one generated from keygen.DefaultTemplate and
// the configured key prefix. A response other than 200 fails with
// errs.ErrKindUploadFailed.
func (c *Client) UploadObject(ctx context.Context, file File, key string) (*UploadResult, error) {
	if key == "" {
		key = c.keys.Generate(file.Name, keygen.Options{
			Type:        keygen.TypeNone,
			KeyTemplate: keygen.DefaultTemplate,
			Prefix:      c.cfg.KeyPrefix,
		})
	}

	target, err := c.store.PresignPutURL(ctx, c.cfg.Bucket, key, c.expiry)
	if err != nil {
		return nil, err
	}

	body, size, err := sizedBody(file)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to read upload body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, body)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to build upload request", err)
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType(file, key))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to upload file", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, errs.New(errs.ErrKindUploadFailed, fmt.Sprintf("failed to upload file: %d", resp.StatusCode))
	}

	c.log.Infof("uploaded %s (%d bytes)", key, size)

	return &UploadResult{
		Key:        key,
		URL:        c.ResolveKeyToURL(key),
		ETag:       strings.Trim(resp.Header.Get("ETag"), `"`),
		StatusCode: resp.StatusCode,
	}, nil
}

// sizedBody returns a body with a known length. Presigned PUTs reject
// chunked transfer encoding, so a body without a positive Size is buffered.
func sizedBody(file File) (io.Reader, int64, error) {
	if file.Body == nil {
		return http.NoBody, 0, nil
	}
	if file.Size > 0 {
		return file.Body, file.Size, nil
	}
	data, err := io.ReadAll(file.Body)
	if err != nil {
		return nil, 0, err
	}
	if len(data) == 0 {
		return http.NoBody, 0, nil
	}
	return bytes.NewReader(data), int64(len(data)), nil
}

func contentType(file File, key string) string {
	if file.ContentType != "" {
		return file.ContentType
	}
	if ext := path.Ext(key); ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
	}
	return defaultContentType
}
