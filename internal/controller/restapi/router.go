package restapi

import (
	"time"

	"github.com/anonshare/anonshare/config"
	v1 "github.com/anonshare/anonshare/internal/controller/restapi/v1"
	"github.com/anonshare/anonshare/internal/usecase"
	"github.com/anonshare/anonshare/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

func NewRouter(app *fiber.App, cfg *config.Config, artifacts usecase.ArtifactUseCase, l logger.Interface) {
	// Expired artifacts are collected on every inbound request instead of
	// by a scheduler. Sweep failures must never fail the request itself.
	app.Use(func(ctx *fiber.Ctx) error {
		if err := artifacts.Sweep(ctx.UserContext(), time.Now()); err != nil {
			l.Error(err, "restapi - sweep")
		}

		return ctx.Next()
	})

	// Routers
	apiV1Group := app.Group("/v1")
	{
		v1.NewArtifactRoutes(apiV1Group, artifacts, l)
	}
}
