package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/andreyxaxa/thumbnail-worker/internal/entity"
	"github.com/andreyxaxa/thumbnail-worker/pkg/types/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	rows      map[string]*entity.Thumbnail
	upsertErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[string]*entity.Thumbnail)}
}

func (r *fakeRepo) Upsert(_ context.Context, thumb *entity.Thumbnail) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}

	r.rows[thumb.Bucket+"/"+thumb.SourceKey] = thumb

	return nil
}

func (r *fakeRepo) GetBySourceKey(_ context.Context, bucket, sourceKey string) (*entity.Thumbnail, error) {
	thumb, ok := r.rows[bucket+"/"+sourceKey]
	if !ok {
		return nil, errs.ErrRecordNotFound
	}

	return thumb, nil
}

func TestUseCase_RecordAndLookup(t *testing.T) {
	r := newFakeRepo()
	uc := New(r)

	source := entity.ArtifactRef{Bucket: "b", Key: "uploads/a/b.png"}
	thumb := entity.ArtifactRef{Bucket: "b", Key: "thumbnails/a/b.png"}
	result := entity.TransformResult{
		Data:        []byte("png-bytes"),
		ContentType: entity.ContentTypePNG,
		Width:       300,
		Height:      600,
	}

	require.NoError(t, uc.Record(context.Background(), source, thumb, result))

	got, err := uc.Lookup(context.Background(), "b", "uploads/a/b.png")
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "thumbnails/a/b.png", got.ThumbnailKey)
	assert.Equal(t, entity.ContentTypePNG, got.ContentType)
	assert.Equal(t, int64(len("png-bytes")), got.Size)
	assert.Equal(t, 300, got.Width)
	assert.Equal(t, 600, got.Height)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestUseCase_Errors(t *testing.T) {
	r := newFakeRepo()
	r.upsertErr = errors.New("connection reset")
	uc := New(r)

	err := uc.Record(context.Background(), entity.ArtifactRef{}, entity.ArtifactRef{}, entity.TransformResult{})
	assert.ErrorIs(t, err, r.upsertErr)

	_, err = uc.Lookup(context.Background(), "b", "missing")
	assert.ErrorIs(t, err, errs.ErrRecordNotFound)
}
