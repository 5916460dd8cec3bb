package v1

import (
	"github.com/anonshare/anonshare/internal/usecase"
	"github.com/anonshare/anonshare/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

func NewArtifactRoutes(apiV1Group fiber.Router, artifacts usecase.ArtifactUseCase, l logger.Interface) {
	r := &V1{artifacts: artifacts, logger: l}

	{
		apiV1Group.Post("/upload", r.uploadImage)
		apiV1Group.Get("/image/:id", r.viewImage)
		apiV1Group.Get("/image/:id/download", r.downloadImage)
		apiV1Group.Get("/image/:id/thumbnail", r.thumbnailImage)
	}
}
