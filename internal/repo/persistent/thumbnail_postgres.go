package persistent

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/andreyxaxa/thumbnail-worker/internal/entity"
	"github.com/andreyxaxa/thumbnail-worker/pkg/postgres"
	"github.com/andreyxaxa/thumbnail-worker/pkg/types/errs"
	"github.com/jackc/pgx/v5"
)

const (
	// Table
	thumbnailsTable = "thumbnails"

	// Columns
	idColumn           = "id"
	bucketColumn       = "bucket"
	sourceKeyColumn    = "source_key"
	thumbnailKeyColumn = "thumbnail_key"
	contentTypeColumn  = "content_type"
	sizeColumn         = "size"
	widthColumn        = "width"
	heightColumn       = "height"
	createdAtColumn    = "created_at"
	updatedAtColumn    = "updated_at"
)

// upsertSuffix relies on a unique index over (bucket, thumbnail_key); a
// redelivered message rewrites the row, matching the last-write-wins object.
const upsertSuffix = "ON CONFLICT (" + bucketColumn + ", " + thumbnailKeyColumn + ") DO UPDATE SET " +
	sourceKeyColumn + " = EXCLUDED." + sourceKeyColumn + ", " +
	contentTypeColumn + " = EXCLUDED." + contentTypeColumn + ", " +
	sizeColumn + " = EXCLUDED." + sizeColumn + ", " +
	widthColumn + " = EXCLUDED." + widthColumn + ", " +
	heightColumn + " = EXCLUDED." + heightColumn + ", " +
	updatedAtColumn + " = EXCLUDED." + updatedAtColumn

type ThumbnailRepo struct {
	*postgres.Postgres
}

func NewThumbnailRepo(pg *postgres.Postgres) *ThumbnailRepo {
	return &ThumbnailRepo{pg}
}

func (r *ThumbnailRepo) Upsert(ctx context.Context, thumb *entity.Thumbnail) error {
	sql, args, err := r.Builder.
		Insert(thumbnailsTable).
		Columns(
			idColumn,
			bucketColumn,
			sourceKeyColumn,
			thumbnailKeyColumn,
			contentTypeColumn,
			sizeColumn,
			widthColumn,
			heightColumn,
			createdAtColumn,
			updatedAtColumn,
		).
		Values(
			thumb.ID,
			thumb.Bucket,
			thumb.SourceKey,
			thumb.ThumbnailKey,
			thumb.ContentType,
			thumb.Size,
			thumb.Width,
			thumb.Height,
			thumb.CreatedAt,
			thumb.UpdatedAt,
		).
		Suffix(upsertSuffix).
		ToSql()
	if err != nil {
		return fmt.Errorf("ThumbnailRepo - Upsert - r.Builder.ToSql: %w", err)
	}

	_, err = r.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("ThumbnailRepo - Upsert - r.Pool.Exec: %w", err)
	}

	return nil
}

func (r *ThumbnailRepo) GetBySourceKey(ctx context.Context, bucket, sourceKey string) (*entity.Thumbnail, error) {
	sql, args, err := r.Builder.
		Select(
			idColumn,
			bucketColumn,
			sourceKeyColumn,
			thumbnailKeyColumn,
			contentTypeColumn,
			sizeColumn,
			widthColumn,
			heightColumn,
			createdAtColumn,
			updatedAtColumn,
		).
		From(thumbnailsTable).
		Where(squirrel.Eq{
			bucketColumn:    bucket,
			sourceKeyColumn: sourceKey,
		}).
		OrderBy(updatedAtColumn + " DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ThumbnailRepo - GetBySourceKey - r.Builder.ToSql: %w", err)
	}

	var thumb entity.Thumbnail
	err = r.Pool.QueryRow(ctx, sql, args...).Scan(
		&thumb.ID,
		&thumb.Bucket,
		&thumb.SourceKey,
		&thumb.ThumbnailKey,
		&thumb.ContentType,
		&thumb.Size,
		&thumb.Width,
		&thumb.Height,
		&thumb.CreatedAt,
		&thumb.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ThumbnailRepo - GetBySourceKey: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("ThumbnailRepo - GetBySourceKey - r.Pool.QueryRow.Scan: %w", err)
	}

	return &thumb, nil
}
