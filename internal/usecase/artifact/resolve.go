package artifact

import (
	"context"
	"fmt"
	"io"

	"github.com/anonshare/anonshare/internal/entity"
	"github.com/anonshare/anonshare/pkg/types/errs"
)

// ResolveForView returns the record when it exists and both of its files
// are still on storage. A known id whose files are gone resolves to
// errs.ErrFilesMissing so the anomaly stays visible in diagnostics, even
// if the caller shows the same not-found message for both.
func (uc *ArtifactUseCase) ResolveForView(ctx context.Context, id string) (*entity.ArtifactRecord, error) {
	record, err := uc.metadataRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ArtifactUseCase - ResolveForView: %w", err)
	}

	for _, key := range []string{record.OriginalPath, record.ThumbnailPath} {
		ok, err := uc.blobRepo.Exists(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("ArtifactUseCase - ResolveForView - uc.blobRepo.Exists: %w", err)
		}
		if !ok {
			uc.logger.Warn("record %s references missing file %s", record.ID, key)

			return nil, fmt.Errorf("ArtifactUseCase - ResolveForView: %w", errs.ErrFilesMissing)
		}
	}

	return record, nil
}

// ResolveForDownload resolves the original file as a stream, paired with
// the record carrying its display filename and MIME type.
func (uc *ArtifactUseCase) ResolveForDownload(ctx context.Context, id string) (io.ReadCloser, *entity.ArtifactRecord, error) {
	record, err := uc.metadataRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("ArtifactUseCase - ResolveForDownload: %w", err)
	}

	ok, err := uc.blobRepo.Exists(ctx, record.OriginalPath)
	if err != nil {
		return nil, nil, fmt.Errorf("ArtifactUseCase - ResolveForDownload - uc.blobRepo.Exists: %w", err)
	}
	if !ok {
		uc.logger.Warn("record %s references missing file %s", record.ID, record.OriginalPath)

		return nil, nil, fmt.Errorf("ArtifactUseCase - ResolveForDownload: %w", errs.ErrFilesMissing)
	}

	body, err := uc.blobRepo.Download(ctx, record.OriginalPath)
	if err != nil {
		return nil, nil, fmt.Errorf("ArtifactUseCase - ResolveForDownload - uc.blobRepo.Download: %w", err)
	}

	return body, record, nil
}

// ResolveForThumbnail resolves the preview bytes and their MIME type.
func (uc *ArtifactUseCase) ResolveForThumbnail(ctx context.Context, id string) ([]byte, string, error) {
	record, err := uc.metadataRepo.FindByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("ArtifactUseCase - ResolveForThumbnail: %w", err)
	}

	ok, err := uc.blobRepo.Exists(ctx, record.ThumbnailPath)
	if err != nil {
		return nil, "", fmt.Errorf("ArtifactUseCase - ResolveForThumbnail - uc.blobRepo.Exists: %w", err)
	}
	if !ok {
		uc.logger.Warn("record %s references missing file %s", record.ID, record.ThumbnailPath)

		return nil, "", fmt.Errorf("ArtifactUseCase - ResolveForThumbnail: %w", errs.ErrFilesMissing)
	}

	data, err := uc.blobRepo.DownloadBytes(ctx, record.ThumbnailPath)
	if err != nil {
		return nil, "", fmt.Errorf("ArtifactUseCase - ResolveForThumbnail - uc.blobRepo.DownloadBytes: %w", err)
	}

	return data, record.ThumbnailMimeType, nil
}
