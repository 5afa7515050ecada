package usecase

import (
	"context"

	"github.com/andreyxaxa/thumbnail-worker/internal/entity"
)

type (
	MessageProcessor interface {
		Process(ctx context.Context, msg entity.QueueMessage) entity.Outcome
	}

	LedgerUseCase interface {
		Record(ctx context.Context, source, thumbnail entity.ArtifactRef, result entity.TransformResult) error
		Lookup(ctx context.Context, bucket, sourceKey string) (*entity.Thumbnail, error)
	}
)
