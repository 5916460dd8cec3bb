package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/anonshare/anonshare/pkg/types/errs"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	// webp sources are decodable even though imaging itself only
	// registers jpeg/png/gif/tiff/bmp.
	_ "golang.org/x/image/webp"
)

const (
	_webpQuality = 80

	mimeGIF  = "image/gif"
	mimeWebP = "image/webp"
	mimePNG  = "image/png"
)

// codec is one preview output format. hasAlpha decides the canvas fill:
// transparent for alpha-capable targets, solid white otherwise.
type codec struct {
	mimeType string
	hasAlpha bool
	encode   func(w io.Writer, img image.Image) error
}

// Thumbnailer resamples a source image into a fixed bounding box and
// encodes it with the best available codec. Not every runtime ships every
// encoder, so codecs are probed at construction and selection falls
// through a priority list.
type Thumbnailer struct {
	codecs map[string]codec
}

func New() *Thumbnailer {
	t := &Thumbnailer{codecs: make(map[string]codec)}

	t.register(codec{
		mimeType: mimeGIF,
		hasAlpha: true,
		encode: func(w io.Writer, img image.Image) error {
			return imaging.Encode(w, img, imaging.GIF)
		},
	})
	t.register(codec{
		mimeType: mimeWebP,
		hasAlpha: true,
		encode: func(w io.Writer, img image.Image) error {
			return webp.Encode(w, img, &webp.Options{Quality: _webpQuality})
		},
	})
	t.register(codec{
		mimeType: mimePNG,
		hasAlpha: true,
		encode: func(w io.Writer, img image.Image) error {
			return imaging.Encode(w, img, imaging.PNG)
		},
	})

	return t
}

// register probes the codec on a 1x1 canvas and keeps it only if the
// encoder actually works in this runtime.
func (t *Thumbnailer) register(c codec) {
	probe := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	if err := c.encode(io.Discard, probe); err != nil {
		return
	}

	t.codecs[c.mimeType] = c
}

func (t *Thumbnailer) Generate(ctx context.Context, data []byte, sourceMimeType string, maxWidth, maxHeight int) ([]byte, string, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("Thumbnailer - Generate - imaging.Decode: %w", errs.ErrUndecodable)
	}

	bounds := src.Bounds()
	srcWidth, srcHeight := bounds.Dx(), bounds.Dy()
	if srcWidth == 0 || srcHeight == 0 {
		return nil, "", fmt.Errorf("Thumbnailer - Generate - zero-area source: %w", errs.ErrUndecodable)
	}

	width, height := fitBox(srcWidth, srcHeight, maxWidth, maxHeight)

	out := t.pickCodec(sourceMimeType)

	var background color.NRGBA
	if out.hasAlpha {
		background = color.NRGBA{} // fully transparent, avoids dark fringing
	} else {
		background = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}

	canvas := imaging.New(width, height, background)
	resized := imaging.Resize(src, width, height, imaging.Lanczos)
	result := imaging.Overlay(canvas, resized, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := out.encode(&buf, result); err != nil {
		return nil, "", fmt.Errorf("Thumbnailer - Generate - encode: %w", errs.ErrEncode)
	}

	return buf.Bytes(), out.mimeType, nil
}

// pickCodec walks the priority list: a gif source keeps gif when that
// encoder exists (preserves its transparency semantics), otherwise webp is
// preferred, otherwise png. png is always registered, stdlib ships it.
func (t *Thumbnailer) pickCodec(sourceMimeType string) codec {
	if sourceMimeType == mimeGIF {
		if c, ok := t.codecs[mimeGIF]; ok {
			return c
		}
	}

	if c, ok := t.codecs[mimeWebP]; ok {
		return c
	}

	return t.codecs[mimePNG]
}

// fitBox scales (srcWidth, srcHeight) to fit entirely inside
// (maxWidth, maxHeight) preserving aspect ratio, touching exactly one
// bound. Sources smaller than the box are scaled up: previews have a fixed
// visual footprint regardless of source size.
func fitBox(srcWidth, srcHeight, maxWidth, maxHeight int) (int, int) {
	aspect := float64(srcWidth) / float64(srcHeight)

	var width, height int
	if float64(maxWidth)/float64(maxHeight) > aspect {
		height = maxHeight
		width = int(float64(maxHeight) * aspect)
	} else {
		width = maxWidth
		height = int(float64(maxWidth) / aspect)
	}

	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	return width, height
}
