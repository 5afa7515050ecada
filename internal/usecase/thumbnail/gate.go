package thumbnail

import (
	"context"
	"errors"
	"fmt"

	"github.com/andreyxaxa/thumbnail-worker/internal/entity"
	"github.com/andreyxaxa/thumbnail-worker/internal/repo"
	"github.com/andreyxaxa/thumbnail-worker/pkg/types/errs"
)

// Gate reports whether a thumbnail has already been materialized.
// The check is not atomic with the later write.
type Gate struct {
	objects repo.ObjectRepo
}

func NewGate(objects repo.ObjectRepo) *Gate {
	return &Gate{objects: objects}
}

// Done returns true when the artifact exists. A missing object or bucket is
// a plain false, every other storage fault is returned.
func (g *Gate) Done(ctx context.Context, ref entity.ArtifactRef) (bool, error) {
	exists, err := g.objects.Exists(ctx, ref.Bucket, ref.Key)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("Gate - Done - g.objects.Exists: %w", err)
	}

	return exists, nil
}
