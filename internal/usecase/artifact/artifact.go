package artifact

import (
	"time"

	"github.com/anonshare/anonshare/internal/infrastructure"
	"github.com/anonshare/anonshare/internal/repo"
	"github.com/anonshare/anonshare/pkg/logger"
)

// Policy holds the deployment-fixed constants of the lifecycle engine.
type Policy struct {
	MaxUploadSize   int64
	ThumbnailWidth  int
	ThumbnailHeight int
	RetentionWindow time.Duration
}

type ArtifactUseCase struct {
	metadataRepo repo.MetadataRepo
	blobRepo     repo.BlobRepo
	thumbnailer  infrastructure.ThumbnailGenerator
	policy       Policy

	logger logger.Interface
}

func New(
	metadataRepo repo.MetadataRepo,
	blobRepo repo.BlobRepo,
	thumbnailer infrastructure.ThumbnailGenerator,
	policy Policy,
	l logger.Interface,
) *ArtifactUseCase {
	return &ArtifactUseCase{
		metadataRepo: metadataRepo,
		blobRepo:     blobRepo,
		thumbnailer:  thumbnailer,
		policy:       policy,
		logger:       l,
	}
}
