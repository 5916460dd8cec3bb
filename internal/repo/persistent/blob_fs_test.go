package persistent

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFSBlobRepoRoundTrip(t *testing.T) {
	repo, err := NewFSBlobRepo(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := "originals/abc123.png"
	payload := []byte("png bytes")

	require.NoError(t, repo.Upload(ctx, key, payload, "image/png"))

	ok, err := repo.Exists(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)

	body, err := repo.Download(ctx, key)
	require.NoError(t, err)
	got, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, body.Close())
	require.Equal(t, payload, got)

	got, err = repo.DownloadBytes(ctx, key)
	require.NoError(t, err)
	require.Equal(t, payload, got)

	require.NoError(t, repo.Delete(ctx, key))

	ok, err = repo.Exists(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFSBlobRepoDeleteMissingIsNoOp(t *testing.T) {
	repo, err := NewFSBlobRepo(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), "originals/never-written.png"))
}
