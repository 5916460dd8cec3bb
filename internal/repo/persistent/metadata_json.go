package persistent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/anonshare/anonshare/internal/entity"
	"github.com/anonshare/anonshare/pkg/logger"
	"github.com/anonshare/anonshare/pkg/types/errs"
	"github.com/gofrs/flock"
)

// MetadataRepo persists the whole artifact table as a single JSON file.
// Writers are serialized twice over: a process-local mutex plus an advisory
// file lock, so concurrent processes sharing the file cannot interleave a
// read-merge-write cycle. Replacement is temp-file-then-rename, so readers
// never observe a truncated table.
type MetadataRepo struct {
	path  string
	mu    sync.Mutex
	flock *flock.Flock

	logger logger.Interface
}

func NewMetadataRepo(path string, l logger.Interface) (*MetadataRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("MetadataRepo - NewMetadataRepo - os.MkdirAll: %w", err)
	}

	return &MetadataRepo{
		path:   path,
		flock:  flock.New(path + ".lock"),
		logger: l,
	}, nil
}

func (r *MetadataRepo) ReadAll(ctx context.Context) ([]entity.ArtifactRecord, error) {
	return r.readAll(), nil
}

// readAll degrades to an empty set on a missing or unparsable table file:
// a fresh service has no records, and a corrupt table must not take the
// read path down with it.
func (r *MetadataRepo) readAll() []entity.ArtifactRecord {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("MetadataRepo - readAll - os.ReadFile: %v", err)
		}

		return []entity.ArtifactRecord{}
	}

	var records []entity.ArtifactRecord
	if err := json.Unmarshal(data, &records); err != nil {
		r.logger.Warn("MetadataRepo - readAll - json.Unmarshal: %v", err)

		return []entity.ArtifactRecord{}
	}

	return records
}

func (r *MetadataRepo) ReplaceAll(ctx context.Context, records []entity.ArtifactRecord) error {
	err := r.Update(ctx, func([]entity.ArtifactRecord) ([]entity.ArtifactRecord, error) {
		return records, nil
	})
	if err != nil {
		return fmt.Errorf("MetadataRepo - ReplaceAll: %w", err)
	}

	return nil
}

func (r *MetadataRepo) FindByID(ctx context.Context, id string) (*entity.ArtifactRecord, error) {
	records, _ := r.ReadAll(ctx)

	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}

	return nil, fmt.Errorf("MetadataRepo - FindByID: %w", errs.ErrRecordNotFound)
}

func (r *MetadataRepo) Update(ctx context.Context, fn func(records []entity.ArtifactRecord) ([]entity.ArtifactRecord, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.flock.Lock(); err != nil {
		return fmt.Errorf("MetadataRepo - Update - r.flock.Lock: %w", err)
	}
	defer func() {
		if err := r.flock.Unlock(); err != nil {
			r.logger.Warn("MetadataRepo - Update - r.flock.Unlock: %v", err)
		}
	}()

	records, err := fn(r.readAll())
	if err != nil {
		return fmt.Errorf("MetadataRepo - Update: %w", err)
	}

	if err := r.writeAll(records); err != nil {
		return fmt.Errorf("MetadataRepo - Update: %w", err)
	}

	return nil
}

// writeAll lands the new table atomically: marshal, write a temp file in
// the same directory, fsync, rename over the table file.
func (r *MetadataRepo) writeAll(records []entity.ArtifactRecord) error {
	if records == nil {
		records = []entity.ArtifactRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("MetadataRepo - writeAll - json.MarshalIndent: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".metadata-*.json")
	if err != nil {
		return fmt.Errorf("MetadataRepo - writeAll - os.CreateTemp: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return fmt.Errorf("MetadataRepo - writeAll - tmp.Write: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return fmt.Errorf("MetadataRepo - writeAll - tmp.Sync: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("MetadataRepo - writeAll - tmp.Close: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("MetadataRepo - writeAll - os.Rename: %w", err)
	}

	return nil
}
