package repo

import (
	"context"

	"github.com/andreyxaxa/thumbnail-worker/internal/entity"
)

type (
	// ObjectRepo is the storage collaborator. Get returns errs.ErrObjectNotFound
	// for a missing object; every other error is a transient fault.
	ObjectRepo interface {
		Exists(ctx context.Context, bucket, key string) (bool, error)
		Get(ctx context.Context, bucket, key string) ([]byte, error)
		Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
	}

	ThumbnailRepo interface {
		Upsert(ctx context.Context, thumb *entity.Thumbnail) error
		GetBySourceKey(ctx context.Context, bucket, sourceKey string) (*entity.Thumbnail, error)
	}
)
