package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/andreyxaxa/thumbnail-worker/internal/entity"
	"github.com/andreyxaxa/thumbnail-worker/internal/repo"
	"github.com/google/uuid"
)

type UseCase struct {
	repo repo.ThumbnailRepo
}

func New(r repo.ThumbnailRepo) *UseCase {
	return &UseCase{repo: r}
}

func (uc *UseCase) Record(ctx context.Context, source, thumbnail entity.ArtifactRef, result entity.TransformResult) error {
	now := time.Now().UTC()

	thumb := &entity.Thumbnail{
		ID:           uuid.New(),
		Bucket:       thumbnail.Bucket,
		SourceKey:    source.Key,
		ThumbnailKey: thumbnail.Key,
		ContentType:  result.ContentType,
		Size:         int64(len(result.Data)),
		Width:        result.Width,
		Height:       result.Height,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := uc.repo.Upsert(ctx, thumb)
	if err != nil {
		return fmt.Errorf("LedgerUseCase - Record - uc.repo.Upsert: %w", err)
	}

	return nil
}

func (uc *UseCase) Lookup(ctx context.Context, bucket, sourceKey string) (*entity.Thumbnail, error) {
	thumb, err := uc.repo.GetBySourceKey(ctx, bucket, sourceKey)
	if err != nil {
		return nil, fmt.Errorf("LedgerUseCase - Lookup - uc.repo.GetBySourceKey: %w", err)
	}

	return thumb, nil
}
