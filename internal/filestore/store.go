// Package filestore is BucketDesk's storage collaborator.
//
// Drivers (minio, s3) implement the low-level Store interface against a
// concrete SDK. Client binds a Store to one bucket Config and exposes the
// operations the settings layer consumes: list, delete, upload through a
// presigned PUT URL, and public URL resolution.
//
// Usage:
//
//	cfg := filestore.DefaultConfig("http://localhost:9000", "photos", "minioadmin", "minioadmin")
//	store, err := s3.New(ctx, cfg)
//	if err != nil { ... }
//	client := filestore.NewClient(store, cfg)
//	defer client.Close()
//
//	objects, err := client.ListObjects(ctx, true)
package filestore

//go:generate mockgen --destination=store.mock.go --package=filestore . Store

import (
	"context"
	"time"
)

// Store is the interface every storage driver implements.
// All methods are safe for concurrent use.
type Store interface {
	// Close releases any held resources.
	Close() error

	// ListObjects returns the objects in bucket that match opts.
	ListObjects(ctx context.Context, bucket string, opts ListOptions) ([]ObjectInfo, error)

	// RemoveObject deletes the object at key. Deleting a missing key is not an error.
	RemoveObject(ctx context.Context, bucket, key string) error

	// PresignPutURL returns a time-limited URL that accepts an HTTP PUT of
	// the object body without further credentials.
	PresignPutURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)

	// PresignGetURL returns a time-limited download URL.
	PresignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}
