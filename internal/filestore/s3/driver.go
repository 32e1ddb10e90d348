// Package s3 provides an AWS SDK v2 implementation of filestore.Store.
// It works with AWS S3 and with S3-compatible services (MinIO, R2,
// SeaweedFS) through a custom endpoint and path-style addressing.
package s3

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/koustreak/BucketDesk/internal/errs"
	"github.com/koustreak/BucketDesk/internal/filestore"
)

// DefaultRegion is used when the settings leave the region empty.
const DefaultRegion = "us-east-1"

// Driver is an S3 implementation of filestore.Store.
type Driver struct {
	client  *awss3.Client
	presign *awss3.PresignClient
}

// New builds an S3 client for cfg. Credentials are static; the shared AWS
// config files are consulted only for settings cfg does not carry.
func New(ctx context.Context, cfg *filestore.Config) (*Driver, error) {
	if cfg.Endpoint != "" {
		if _, _, err := cfg.HostAndSecure(); err != nil {
			return nil, err
		}
	}

	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to load aws config", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	return &Driver{
		client:  client,
		presign: awss3.NewPresignClient(client),
	}, nil
}

// --- filestore.Store implementation ---

// Close is a no-op; the SDK client holds no resources that need releasing.
func (d *Driver) Close() error {
	return nil
}

// ListObjects pages through ListObjectsV2 until the bucket is exhausted,
// or stops after one page when opts.FirstPageOnly is set.
func (d *Driver) ListObjects(ctx context.Context, bucket string, opts filestore.ListOptions) ([]filestore.ObjectInfo, error) {
	input := &awss3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		MaxKeys: aws.Int32(filestore.PageSize),
	}
	if opts.Prefix != "" {
		input.Prefix = aws.String(opts.Prefix)
	}
	if !opts.Recursive {
		input.Delimiter = aws.String("/")
	}

	var results []filestore.ObjectInfo

	pages := awss3.NewListObjectsV2Paginator(d.client, input)
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, mapError(err, "failed to list objects")
		}

		for _, p := range page.CommonPrefixes {
			results = append(results, filestore.ObjectInfo{
				Key:   aws.ToString(p.Prefix),
				IsDir: true,
			})
		}
		for _, o := range page.Contents {
			results = append(results, filestore.ObjectInfo{
				Key:          aws.ToString(o.Key),
				Size:         aws.ToInt64(o.Size),
				ETag:         strings.Trim(aws.ToString(o.ETag), `"`),
				LastModified: aws.ToTime(o.LastModified),
			})
		}

		if opts.FirstPageOnly {
			break
		}
	}

	return results, nil
}

// RemoveObject deletes the object at key.
func (d *Driver) RemoveObject(ctx context.Context, bucket, key string) error {
	_, err := d.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return mapError(err, "failed to delete object")
	}
	return nil
}

// PresignPutURL returns a time-limited upload URL for key.
func (d *Driver) PresignPutURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	req, err := d.presign.PresignPutObject(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, awss3.WithPresignExpires(ttl))
	if err != nil {
		return "", mapError(err, "failed to generate presigned upload URL")
	}
	return req.URL, nil
}

// PresignGetURL returns a time-limited download URL for key.
func (d *Driver) PresignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	req, err := d.presign.PresignGetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, awss3.WithPresignExpires(ttl))
	if err != nil {
		return "", mapError(err, "failed to generate presigned download URL")
	}
	return req.URL, nil
}

var _ filestore.Store = (*Driver)(nil)
