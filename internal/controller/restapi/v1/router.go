package v1

import (
	"github.com/andreyxaxa/thumbnail-worker/internal/usecase"
	"github.com/andreyxaxa/thumbnail-worker/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

func NewThumbnailRoutes(apiV1Group fiber.Router, ledger usecase.LedgerUseCase, l logger.Interface) {
	r := &V1{ledger: ledger, logger: l}

	{
		apiV1Group.Get("/thumbnails", r.getThumbnail)
	}
}
