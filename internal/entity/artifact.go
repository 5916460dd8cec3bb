package entity

import "time"

// ArtifactRecord is one uploaded image plus its derived thumbnail.
// Records are immutable after creation; the only mutation is deletion by
// the retention sweep.
type ArtifactRecord struct {
	ID string `json:"id"`

	OriginalName string `json:"original_name"` // display only, never a path

	OriginalPath  string `json:"original_path"`
	ThumbnailPath string `json:"thumbnail_path"`

	OriginalMimeType  string `json:"original_mime_type"`
	ThumbnailMimeType string `json:"thumbnail_mime_type"`

	SizeKB     float64 `json:"size_kb"`
	Dimensions string  `json:"dimensions"` // "WxH", or "unknown"

	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the record has outlived the retention window at
// the given moment. The boundary itself counts as expired.
func (r ArtifactRecord) Expired(now time.Time, window time.Duration) bool {
	return now.Sub(r.CreatedAt) >= window
}
