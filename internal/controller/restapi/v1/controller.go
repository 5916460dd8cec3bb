package v1

import (
	"github.com/anonshare/anonshare/internal/usecase"
	"github.com/anonshare/anonshare/pkg/logger"
)

type V1 struct {
	artifacts usecase.ArtifactUseCase
	logger    logger.Interface
}
