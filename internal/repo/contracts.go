package repo

import (
	"context"
	"io"

	"github.com/anonshare/anonshare/internal/entity"
)

type (
	// MetadataRepo is the whole-table record store. The table is small by
	// design, so reads and writes move the full set.
	MetadataRepo interface {
		// ReadAll returns the persisted set. Missing or corrupt backing
		// storage degrades to an empty set, never an error.
		ReadAll(ctx context.Context) ([]entity.ArtifactRecord, error)
		// ReplaceAll atomically overwrites the persisted set.
		ReplaceAll(ctx context.Context, records []entity.ArtifactRecord) error
		// FindByID returns errs.ErrRecordNotFound for unknown ids.
		FindByID(ctx context.Context, id string) (*entity.ArtifactRecord, error)
		// Update runs fn inside the store's exclusive-write section:
		// the current set goes in, the returned set is persisted
		// atomically. Concurrent Update calls are fully serialized, so a
		// read-merge-write cycle can never lose another writer's data.
		Update(ctx context.Context, fn func(records []entity.ArtifactRecord) ([]entity.ArtifactRecord, error)) error
	}

	// BlobRepo stores artifact files under server-derived keys. Blobs are
	// write-once: a key is written during its own ingestion and never
	// mutated afterwards.
	BlobRepo interface {
		Upload(ctx context.Context, key string, data []byte, contentType string) error
		Download(ctx context.Context, key string) (io.ReadCloser, error)
		DownloadBytes(ctx context.Context, key string) ([]byte, error)
		Exists(ctx context.Context, key string) (bool, error)
		Delete(ctx context.Context, key string) error
	}
)
