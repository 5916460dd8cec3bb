package persistent

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FSBlobRepo stores artifact files under a root directory. Keys are always
// server-derived ("originals/<id>.<ext>"), never client text, so joining
// them under the root is safe.
//
// Writes go to a uuid-named staging file first and are renamed into the
// canonical path only once complete, so an aborted write never leaves a
// partial blob under a key a record could reference.
type FSBlobRepo struct {
	root string
}

func NewFSBlobRepo(root string) (*FSBlobRepo, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("FSBlobRepo - NewFSBlobRepo - os.MkdirAll: %w", err)
	}

	return &FSBlobRepo{root: root}, nil
}

func (r *FSBlobRepo) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	path := filepath.Join(r.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("FSBlobRepo - Upload - os.MkdirAll: %w", err)
	}

	staging := filepath.Join(filepath.Dir(path), ".staging-"+uuid.NewString())
	if err := os.WriteFile(staging, data, 0o644); err != nil {
		return fmt.Errorf("FSBlobRepo - Upload - os.WriteFile: %w", err)
	}

	if err := os.Rename(staging, path); err != nil {
		os.Remove(staging)

		return fmt.Errorf("FSBlobRepo - Upload - os.Rename: %w", err)
	}

	return nil
}

func (r *FSBlobRepo) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(r.root, filepath.FromSlash(key)))
	if err != nil {
		return nil, fmt.Errorf("FSBlobRepo - Download - os.Open: %w", err)
	}

	return f, nil
}

func (r *FSBlobRepo) DownloadBytes(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(r.root, filepath.FromSlash(key)))
	if err != nil {
		return nil, fmt.Errorf("FSBlobRepo - DownloadBytes - os.ReadFile: %w", err)
	}

	return data, nil
}

func (r *FSBlobRepo) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(filepath.Join(r.root, filepath.FromSlash(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, fmt.Errorf("FSBlobRepo - Exists - os.Stat: %w", err)
	}

	return true, nil
}

func (r *FSBlobRepo) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(r.root, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("FSBlobRepo - Delete - os.Remove: %w", err)
	}

	// deleting an already-missing blob is a no-op, keeps the sweep idempotent
	return nil
}
