// Package minio provides a MinIO implementation of filestore.Store.
//
// Usage:
//
//	cfg := filestore.DefaultConfig("http://localhost:9000", "photos", "minioadmin", "minioadmin")
//	cfg.Provider = filestore.ProviderMinIO
//	store, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
package minio

import (
	"context"
	"strings"
	"time"

	"github.com/koustreak/BucketDesk/internal/errs"
	"github.com/koustreak/BucketDesk/internal/filestore"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Driver is a MinIO implementation of filestore.Store.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	client *miniogo.Client
}

// New builds a MinIO client for cfg. No request is sent; a bad endpoint or
// bad credentials surface on the first operation.
func New(_ context.Context, cfg *filestore.Config) (*Driver, error) {
	host, secure, err := cfg.HostAndSecure()
	if err != nil {
		return nil, err
	}

	lookup := miniogo.BucketLookupAuto
	if cfg.PathStyle {
		lookup = miniogo.BucketLookupPath
	}

	client, err := miniogo.New(host, &miniogo.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       secure,
		Region:       cfg.Region,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to create minio client", err)
	}

	return &Driver{client: client}, nil
}

// --- filestore.Store implementation ---

// Close is a no-op for MinIO; the SDK client holds no persistent connections.
func (d *Driver) Close() error {
	return nil
}

// ListObjects returns objects in bucket that match opts.
func (d *Driver) ListObjects(ctx context.Context, bucket string, opts filestore.ListOptions) ([]filestore.ObjectInfo, error) {
	// Cancelling stops the SDK's listing goroutine when we leave early.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	listOpts := miniogo.ListObjectsOptions{
		Prefix:    opts.Prefix,
		Recursive: opts.Recursive,
		MaxKeys:   filestore.PageSize,
	}

	var results []filestore.ObjectInfo

	for obj := range d.client.ListObjects(ctx, bucket, listOpts) {
		if obj.Err != nil {
			return nil, mapError(obj.Err, "failed to list objects")
		}

		results = append(results, filestore.ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			ETag:         strings.Trim(obj.ETag, `"`),
			LastModified: obj.LastModified,
			IsDir:        strings.HasSuffix(obj.Key, "/"),
		})

		if opts.FirstPageOnly && len(results) >= filestore.PageSize {
			break
		}
	}

	return results, nil
}

// RemoveObject deletes the object at key.
func (d *Driver) RemoveObject(ctx context.Context, bucket, key string) error {
	if err := d.client.RemoveObject(ctx, bucket, key, miniogo.RemoveObjectOptions{}); err != nil {
		return mapError(err, "failed to delete object")
	}
	return nil
}

// PresignPutURL returns a time-limited upload URL for key.
func (d *Driver) PresignPutURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	u, err := d.client.PresignedPutObject(ctx, bucket, key, ttl)
	if err != nil {
		return "", mapError(err, "failed to generate presigned upload URL")
	}
	return u.String(), nil
}

// PresignGetURL returns a time-limited download URL for key.
func (d *Driver) PresignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	u, err := d.client.PresignedGetObject(ctx, bucket, key, ttl, nil)
	if err != nil {
		return "", mapError(err, "failed to generate presigned download URL")
	}
	return u.String(), nil
}

var _ filestore.Store = (*Driver)(nil)
