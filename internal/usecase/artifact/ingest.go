package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"time"

	"github.com/anonshare/anonshare/internal/entity"
	"github.com/anonshare/anonshare/pkg/types/errs"
	"github.com/gabriel-vasile/mimetype"
)

// Ingest validates an upload, persists the original and its thumbnail and
// appends the metadata record. Any failure after a file has been written
// rolls the files back, so the store and the blob storage never diverge.
func (uc *ArtifactUseCase) Ingest(ctx context.Context, data io.Reader, declaredFilename string, declaredSize int64) (*entity.ArtifactRecord, error) {
	buf, err := io.ReadAll(io.LimitReader(data, uc.policy.MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("ArtifactUseCase - Ingest - io.ReadAll: %w", errs.ErrTransfer)
	}

	if len(buf) == 0 {
		return nil, fmt.Errorf("ArtifactUseCase - Ingest: %w", errs.ErrEmptyFile)
	}

	if int64(len(buf)) > uc.policy.MaxUploadSize || declaredSize > uc.policy.MaxUploadSize {
		return nil, fmt.Errorf("ArtifactUseCase - Ingest: %w", errs.ErrTooLarge)
	}

	// true type comes from the bytes, the client-declared content type and
	// filename are never trusted on their own
	detected := mimetype.Detect(buf).String()
	ext, err := validateType(detected, declaredFilename)
	if err != nil {
		return nil, fmt.Errorf("ArtifactUseCase - Ingest: %w", err)
	}

	id := uc.newUniqueID(ctx)

	originalKey := fmt.Sprintf("originals/%s.%s", id, ext)

	if err := uc.blobRepo.Upload(ctx, originalKey, buf, detected); err != nil {
		uc.logger.Error(err, "ArtifactUseCase - Ingest - uc.blobRepo.Upload")

		return nil, fmt.Errorf("ArtifactUseCase - Ingest - uc.blobRepo.Upload: %w", errs.ErrStorageWrite)
	}

	thumb, thumbMime, err := uc.thumbnailer.Generate(ctx, buf, detected, uc.policy.ThumbnailWidth, uc.policy.ThumbnailHeight)
	if err != nil {
		uc.deleteBlob(ctx, originalKey)

		return nil, fmt.Errorf("ArtifactUseCase - Ingest - uc.thumbnailer.Generate: %w", err)
	}

	thumbnailKey := fmt.Sprintf("thumbnails/%s.%s", id, extensionForMime(thumbMime))

	if err := uc.blobRepo.Upload(ctx, thumbnailKey, thumb, thumbMime); err != nil {
		uc.logger.Error(err, "ArtifactUseCase - Ingest - uc.blobRepo.Upload(thumbnail)")
		uc.deleteBlob(ctx, originalKey)

		return nil, fmt.Errorf("ArtifactUseCase - Ingest - uc.blobRepo.Upload: %w", errs.ErrStorageWrite)
	}

	record := entity.ArtifactRecord{
		ID:                id,
		OriginalName:      declaredFilename,
		OriginalPath:      originalKey,
		ThumbnailPath:     thumbnailKey,
		OriginalMimeType:  detected,
		ThumbnailMimeType: thumbMime,
		SizeKB:            math.Round(float64(len(buf))/1024*100) / 100,
		Dimensions:        sourceDimensions(buf),
		CreatedAt:         time.Now(),
	}

	err = uc.metadataRepo.Update(ctx, func(records []entity.ArtifactRecord) ([]entity.ArtifactRecord, error) {
		return append(records, record), nil
	})
	if err != nil {
		uc.logger.Error(err, "ArtifactUseCase - Ingest - uc.metadataRepo.Update")
		uc.deleteBlob(ctx, originalKey)
		uc.deleteBlob(ctx, thumbnailKey)

		return nil, fmt.Errorf("ArtifactUseCase - Ingest - uc.metadataRepo.Update: %w", errs.ErrMetadata)
	}

	return &record, nil
}

// newUniqueID draws fresh identifiers until one is absent from the store.
// A collision is astronomically unlikely at 80 bits, but the lookup is
// cheap and the loop makes the guarantee unconditional.
func (uc *ArtifactUseCase) newUniqueID(ctx context.Context) string {
	for {
		id := newArtifactID()

		if _, err := uc.metadataRepo.FindByID(ctx, id); errors.Is(err, errs.ErrRecordNotFound) {
			return id
		}
	}
}

func (uc *ArtifactUseCase) deleteBlob(ctx context.Context, key string) {
	if err := uc.blobRepo.Delete(ctx, key); err != nil {
		uc.logger.Warn("failed to delete key=%s, error=%v", key, err)
	}
}

// sourceDimensions reads "WxH" from the image header, "unknown" when the
// header is not parsable.
func sourceDimensions(data []byte) string {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "unknown"
	}

	return fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)
}
