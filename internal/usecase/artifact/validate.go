package artifact

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/anonshare/anonshare/pkg/types/errs"
)

// Detected MIME type must be in the allow-list, the filename extension must
// map to an allowed format, and the two must agree on format family.
var (
	_allowedMimeTypes = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}

	_extensionMime = map[string]string{
		"jpg":  "image/jpeg",
		"jpeg": "image/jpeg",
		"png":  "image/png",
		"gif":  "image/gif",
		"webp": "image/webp",
	}

	_mimeExtension = map[string]string{
		"image/jpeg": "jpg",
		"image/png":  "png",
		"image/gif":  "gif",
		"image/webp": "webp",
	}
)

// validateType returns the server-chosen extension for the detected type.
func validateType(detectedMime, declaredFilename string) (string, error) {
	if !_allowedMimeTypes[detectedMime] {
		return "", fmt.Errorf("detected type %s: %w", detectedMime, errs.ErrInvalidType)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(declaredFilename)), ".")

	extMime, ok := _extensionMime[ext]
	if !ok {
		return "", fmt.Errorf("extension %q: %w", ext, errs.ErrInvalidType)
	}

	if extMime != detectedMime {
		return "", fmt.Errorf("extension %q does not match detected type %s: %w", ext, detectedMime, errs.ErrInvalidType)
	}

	return _mimeExtension[detectedMime], nil
}

func extensionForMime(mimeType string) string {
	if ext, ok := _mimeExtension[mimeType]; ok {
		return ext
	}

	return "bin"
}

// newArtifactID returns 80 bits of entropy as a 20-character hex token,
// URL-safe and collision-resistant.
func newArtifactID() string {
	b := make([]byte, 10)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("artifact id entropy unavailable: %v", err))
	}

	return hex.EncodeToString(b)
}
