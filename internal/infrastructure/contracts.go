package infrastructure

import "context"

type (
	// ThumbnailGenerator derives a bounded-size preview from source image
	// bytes. The returned MIME type is chosen by the generator from its
	// available encoders and may differ from the source type.
	ThumbnailGenerator interface {
		Generate(ctx context.Context, data []byte, sourceMimeType string, maxWidth, maxHeight int) ([]byte, string, error)
	}
)
