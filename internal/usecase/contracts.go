package usecase

import (
	"context"
	"io"
	"time"

	"github.com/anonshare/anonshare/internal/entity"
)

type (
	// ArtifactUseCase is the artifact lifecycle engine: upload ingestion,
	// identifier resolution and time-based retention sweeping. This is the
	// full contract the presentation layer works against.
	ArtifactUseCase interface {
		Ingest(ctx context.Context, data io.Reader, declaredFilename string, declaredSize int64) (*entity.ArtifactRecord, error)
		ResolveForView(ctx context.Context, id string) (*entity.ArtifactRecord, error)
		ResolveForDownload(ctx context.Context, id string) (io.ReadCloser, *entity.ArtifactRecord, error)
		ResolveForThumbnail(ctx context.Context, id string) ([]byte, string, error)
		Sweep(ctx context.Context, now time.Time) error
	}
)
