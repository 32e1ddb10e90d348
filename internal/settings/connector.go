package settings

import (
	"context"

	"github.com/koustreak/BucketDesk/internal/errs"
	"github.com/koustreak/BucketDesk/internal/filestore"
	"github.com/koustreak/BucketDesk/internal/filestore/minio"
	"github.com/koustreak/BucketDesk/internal/filestore/s3"
)

// NewConnector returns a Connector that opens a filestore.Client through
// the driver for provider. opts are applied to every client.
func NewConnector(provider filestore.Provider, opts ...filestore.Option) Connector {
	return func(ctx context.Context, current StorageSettings) (Storage, error) {
		cfg := current.FilestoreConfig()
		cfg.Provider = provider

		if err := cfg.Validate(); err != nil {
			return nil, err
		}

		var (
			store filestore.Store
			err   error
		)
		switch provider {
		case filestore.ProviderMinIO:
			store, err = minio.New(ctx, cfg)
		case filestore.ProviderS3, "":
			store, err = s3.New(ctx, cfg)
		default:
			return nil, errs.New(errs.ErrKindInvalidInput, "unknown storage provider "+string(provider))
		}
		if err != nil {
			return nil, err
		}

		return filestore.NewClient(store, cfg, opts...), nil
	}
}
