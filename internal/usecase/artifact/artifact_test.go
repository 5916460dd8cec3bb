package artifact_test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/anonshare/anonshare/internal/entity"
	"github.com/anonshare/anonshare/internal/infrastructure/processor"
	"github.com/anonshare/anonshare/internal/repo/persistent"
	"github.com/anonshare/anonshare/internal/usecase/artifact"
	"github.com/anonshare/anonshare/pkg/logger"
	"github.com/anonshare/anonshare/pkg/types/errs"
	"github.com/stretchr/testify/require"
)

const _window = 72 * time.Hour

type engine struct {
	uc       *artifact.ArtifactUseCase
	metadata *persistent.MetadataRepo
	blobs    *persistent.FSBlobRepo
	root     string
}

func newEngine(t *testing.T, policy artifact.Policy) *engine {
	t.Helper()

	root := t.TempDir()
	l := logger.New("error")

	metadata, err := persistent.NewMetadataRepo(filepath.Join(root, "image_metadata.json"), l)
	require.NoError(t, err)

	blobs, err := persistent.NewFSBlobRepo(root)
	require.NoError(t, err)

	return &engine{
		uc:       artifact.New(metadata, blobs, processor.New(), policy, l),
		metadata: metadata,
		blobs:    blobs,
		root:     root,
	}
}

func defaultPolicy() artifact.Policy {
	return artifact.Policy{
		MaxUploadSize:   10 * 1024 * 1024,
		ThumbnailWidth:  750,
		ThumbnailHeight: 750,
		RetentionWindow: _window,
	}
}

func pngUpload(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.NRGBA{R: uint8(x), G: 100, B: 50, A: 255})
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func TestIngestAndResolveRoundTrip(t *testing.T) {
	e := newEngine(t, defaultPolicy())
	ctx := context.Background()

	payload := pngUpload(t, 640, 480)

	record, err := e.uc.Ingest(ctx, bytes.NewReader(payload), "holiday photo.png", int64(len(payload)))
	require.NoError(t, err)
	require.Len(t, record.ID, 20) // 80 bits as hex
	require.Equal(t, "holiday photo.png", record.OriginalName)
	require.Equal(t, "image/png", record.OriginalMimeType)
	require.Equal(t, "640x480", record.Dimensions)
	require.Equal(t, "originals/"+record.ID+".png", record.OriginalPath)

	viewed, err := e.uc.ResolveForView(ctx, record.ID)
	require.NoError(t, err)
	require.Equal(t, record.ID, viewed.ID)

	body, downloaded, err := e.uc.ResolveForDownload(ctx, record.ID)
	require.NoError(t, err)
	got, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, body.Close())
	require.Equal(t, payload, got)
	require.Equal(t, "holiday photo.png", downloaded.OriginalName)

	thumb, mimeType, err := e.uc.ResolveForThumbnail(ctx, record.ID)
	require.NoError(t, err)
	require.NotEmpty(t, thumb)
	require.Equal(t, record.ThumbnailMimeType, mimeType)
}

func TestResolveNeverIssuedID(t *testing.T) {
	e := newEngine(t, defaultPolicy())
	ctx := context.Background()

	_, err := e.uc.ResolveForView(ctx, "aaaaaaaaaaaaaaaaaaaa")
	require.ErrorIs(t, err, errs.ErrRecordNotFound)

	_, _, err = e.uc.ResolveForDownload(ctx, "aaaaaaaaaaaaaaaaaaaa")
	require.ErrorIs(t, err, errs.ErrRecordNotFound)

	_, _, err = e.uc.ResolveForThumbnail(ctx, "aaaaaaaaaaaaaaaaaaaa")
	require.ErrorIs(t, err, errs.ErrRecordNotFound)
}

func TestResolveFilesMissingIsDistinct(t *testing.T) {
	e := newEngine(t, defaultPolicy())
	ctx := context.Background()

	payload := pngUpload(t, 64, 64)
	record, err := e.uc.Ingest(ctx, bytes.NewReader(payload), "cat.png", int64(len(payload)))
	require.NoError(t, err)

	require.NoError(t, e.blobs.Delete(ctx, record.OriginalPath))

	_, err = e.uc.ResolveForView(ctx, record.ID)
	require.ErrorIs(t, err, errs.ErrFilesMissing)
	require.NotErrorIs(t, err, errs.ErrRecordNotFound)
}

func TestIngestEmptyFile(t *testing.T) {
	e := newEngine(t, defaultPolicy())

	_, err := e.uc.Ingest(context.Background(), bytes.NewReader(nil), "empty.png", 0)
	require.ErrorIs(t, err, errs.ErrEmptyFile)
}

func TestIngestTooLarge(t *testing.T) {
	policy := defaultPolicy()
	policy.MaxUploadSize = 100
	e := newEngine(t, policy)

	payload := pngUpload(t, 200, 200)
	require.Greater(t, len(payload), 100)

	_, err := e.uc.Ingest(context.Background(), bytes.NewReader(payload), "big.png", int64(len(payload)))
	require.ErrorIs(t, err, errs.ErrTooLarge)
}

func TestIngestExecutableNamedPNG(t *testing.T) {
	e := newEngine(t, defaultPolicy())

	elf := append([]byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0}, make([]byte, 56)...)

	_, err := e.uc.Ingest(context.Background(), bytes.NewReader(elf), "innocent.png", int64(len(elf)))
	require.ErrorIs(t, err, errs.ErrInvalidType)
}

func TestIngestExtensionMismatch(t *testing.T) {
	e := newEngine(t, defaultPolicy())

	payload := pngUpload(t, 32, 32)

	_, err := e.uc.Ingest(context.Background(), bytes.NewReader(payload), "photo.jpg", int64(len(payload)))
	require.ErrorIs(t, err, errs.ErrInvalidType)
}

type failingThumbnailer struct{}

func (failingThumbnailer) Generate(context.Context, []byte, string, int, int) ([]byte, string, error) {
	return nil, "", fmt.Errorf("thumbnailer: %w", errs.ErrEncode)
}

func TestIngestThumbnailFailureRemovesOriginal(t *testing.T) {
	root := t.TempDir()
	l := logger.New("error")

	metadata, err := persistent.NewMetadataRepo(filepath.Join(root, "image_metadata.json"), l)
	require.NoError(t, err)
	blobs, err := persistent.NewFSBlobRepo(root)
	require.NoError(t, err)

	uc := artifact.New(metadata, blobs, failingThumbnailer{}, defaultPolicy(), l)
	ctx := context.Background()

	payload := pngUpload(t, 64, 64)
	_, err = uc.Ingest(ctx, bytes.NewReader(payload), "cat.png", int64(len(payload)))
	require.ErrorIs(t, err, errs.ErrEncode)

	originals, err := filepath.Glob(filepath.Join(root, "originals", "*"))
	require.NoError(t, err)
	require.Empty(t, originals) // no orphaned original

	records, err := metadata.ReadAll(ctx)
	require.NoError(t, err)
	require.Empty(t, records)
}

type failingMetadataRepo struct {
	*persistent.MetadataRepo
}

func (r *failingMetadataRepo) Update(context.Context, func([]entity.ArtifactRecord) ([]entity.ArtifactRecord, error)) error {
	return fmt.Errorf("table file not writable")
}

func TestIngestMetadataFailureRollsBackFiles(t *testing.T) {
	root := t.TempDir()
	l := logger.New("error")

	metadata, err := persistent.NewMetadataRepo(filepath.Join(root, "image_metadata.json"), l)
	require.NoError(t, err)
	blobs, err := persistent.NewFSBlobRepo(root)
	require.NoError(t, err)

	uc := artifact.New(&failingMetadataRepo{metadata}, blobs, processor.New(), defaultPolicy(), l)
	ctx := context.Background()

	payload := pngUpload(t, 64, 64)
	_, err = uc.Ingest(ctx, bytes.NewReader(payload), "cat.png", int64(len(payload)))
	require.ErrorIs(t, err, errs.ErrMetadata)

	for _, dir := range []string{"originals", "thumbnails"} {
		files, err := filepath.Glob(filepath.Join(root, dir, "*"))
		require.NoError(t, err)
		require.Empty(t, files)
	}

	records, err := metadata.ReadAll(ctx)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestSweepRetentionBoundary(t *testing.T) {
	e := newEngine(t, defaultPolicy())
	ctx := context.Background()

	payload := pngUpload(t, 64, 64)
	record, err := e.uc.Ingest(ctx, bytes.NewReader(payload), "cat.png", int64(len(payload)))
	require.NoError(t, err)

	// pin creation time so the boundary is exact
	t0 := time.Now().Add(-time.Hour)
	records, err := e.metadata.ReadAll(ctx)
	require.NoError(t, err)
	records[0].CreatedAt = t0
	require.NoError(t, e.metadata.ReplaceAll(ctx, records))

	require.NoError(t, e.uc.Sweep(ctx, t0.Add(_window-time.Second)))
	_, err = e.metadata.FindByID(ctx, record.ID)
	require.NoError(t, err) // one tick before the window: kept

	require.NoError(t, e.uc.Sweep(ctx, t0.Add(_window)))
	_, err = e.metadata.FindByID(ctx, record.ID)
	require.ErrorIs(t, err, errs.ErrRecordNotFound)

	for _, key := range []string{record.OriginalPath, record.ThumbnailPath} {
		ok, err := e.blobs.Exists(ctx, key)
		require.NoError(t, err)
		require.False(t, ok)
	}
}

func TestSweepIdempotent(t *testing.T) {
	e := newEngine(t, defaultPolicy())
	ctx := context.Background()

	payload := pngUpload(t, 64, 64)
	_, err := e.uc.Ingest(ctx, bytes.NewReader(payload), "cat.png", int64(len(payload)))
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, e.uc.Sweep(ctx, now))
	require.NoError(t, e.uc.Sweep(ctx, now))

	records, err := e.metadata.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestConcurrentIngest(t *testing.T) {
	e := newEngine(t, defaultPolicy())
	ctx := context.Background()

	const uploads = 8

	ids := make([]string, uploads)

	var wg sync.WaitGroup
	for i := 0; i < uploads; i++ {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			payload := pngUpload(t, 32+n, 32)
			record, err := e.uc.Ingest(ctx, bytes.NewReader(payload), fmt.Sprintf("img-%d.png", n), int64(len(payload)))
			require.NoError(t, err)
			ids[n] = record.ID
		}(i)
	}
	wg.Wait()

	records, err := e.metadata.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, uploads)

	for _, id := range ids {
		_, err := e.uc.ResolveForView(ctx, id)
		require.NoError(t, err)
	}
}
