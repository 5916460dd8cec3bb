package artifact

import (
	"context"
	"fmt"
	"time"

	"github.com/anonshare/anonshare/internal/entity"
)

// Sweep deletes every artifact whose retention window has elapsed at the
// given moment: files first (best effort, a failed unlink is logged and
// never blocks the record's removal), then the records in one atomic table
// replacement. Safe to call on every inbound request and concurrently
// with ingestion; the store's exclusive-write section serializes it
// against other writers.
func (uc *ArtifactUseCase) Sweep(ctx context.Context, now time.Time) error {
	// cheap pre-check outside the lock so the per-request trigger costs a
	// single read when nothing is due
	records, _ := uc.metadataRepo.ReadAll(ctx)
	if !anyExpired(records, now, uc.policy.RetentionWindow) {
		return nil
	}

	err := uc.metadataRepo.Update(ctx, func(records []entity.ArtifactRecord) ([]entity.ArtifactRecord, error) {
		live := make([]entity.ArtifactRecord, 0, len(records))

		for _, record := range records {
			if !record.Expired(now, uc.policy.RetentionWindow) {
				live = append(live, record)

				continue
			}

			uc.deleteBlob(ctx, record.OriginalPath)
			uc.deleteBlob(ctx, record.ThumbnailPath)
		}

		return live, nil
	})
	if err != nil {
		return fmt.Errorf("ArtifactUseCase - Sweep - uc.metadataRepo.Update: %w", err)
	}

	return nil
}

func anyExpired(records []entity.ArtifactRecord, now time.Time, window time.Duration) bool {
	for _, record := range records {
		if record.Expired(now, window) {
			return true
		}
	}

	return false
}
