package restapi

import (
	"net/http"

	v1 "github.com/andreyxaxa/thumbnail-worker/internal/controller/restapi/v1"
	"github.com/andreyxaxa/thumbnail-worker/internal/usecase"
	"github.com/andreyxaxa/thumbnail-worker/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Probe interface {
	Ready() bool
}

// NewRouter mounts the ops routes. The v1 ledger API is mounted only when
// ledger is not nil.
func NewRouter(app *fiber.App, probe Probe, ledger usecase.LedgerUseCase, l logger.Interface) {
	app.Use(recover.New())

	// K8s probes
	app.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(http.StatusOK)
	})
	app.Get("/readyz", func(ctx *fiber.Ctx) error {
		if !probe.Ready() {
			return ctx.SendStatus(http.StatusServiceUnavailable)
		}

		return ctx.SendStatus(http.StatusOK)
	})

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if ledger == nil {
		return
	}

	// Routers
	apiV1Group := app.Group("/v1")
	{
		v1.NewThumbnailRoutes(apiV1Group, ledger, l)
	}
}
