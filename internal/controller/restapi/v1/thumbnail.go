package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/andreyxaxa/thumbnail-worker/internal/controller/restapi/v1/response"
	"github.com/andreyxaxa/thumbnail-worker/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
)

// @Summary 	Get thumbnail record
// @Description Looks up the last thumbnail written for a source object
// @Tags 		thumbnails
// @Produce 	json
// @Param 		bucket query string true "Bucket"
// @Param 		key    query string true "Source key"
// @Success 	200 {object} response.Thumbnail
// @Failure 	400 {object} response.Error "Missing parameters"
// @Failure 	404 {object} response.Error "Thumbnail not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/thumbnails [get]
func (r *V1) getThumbnail(ctx *fiber.Ctx) error {
	bucket := ctx.Query("bucket")
	key := ctx.Query("key")

	if bucket == "" || key == "" {
		return errorResponse(ctx, http.StatusBadRequest, "bucket and key are required")
	}

	thumb, err := r.ledger.Lookup(ctx.UserContext(), bucket, key)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "thumbnail not found")
		}
		r.logger.Error(err, "restapi - v1 - getThumbnail")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	resp := response.Thumbnail{
		ID:           thumb.ID.String(),
		Bucket:       thumb.Bucket,
		SourceKey:    thumb.SourceKey,
		ThumbnailKey: thumb.ThumbnailKey,
		ContentType:  thumb.ContentType,
		Size:         thumb.Size,
		Width:        thumb.Width,
		Height:       thumb.Height,
		UpdatedAt:    thumb.UpdatedAt.Format(time.RFC3339),
	}

	return ctx.Status(http.StatusOK).JSON(resp)
}
