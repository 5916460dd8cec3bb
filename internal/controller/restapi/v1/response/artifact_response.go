package response

type Artifact struct {
	ID                string  `json:"id"`
	OriginalName      string  `json:"original_name"`
	OriginalMimeType  string  `json:"original_mime_type"`
	ThumbnailMimeType string  `json:"thumbnail_mime_type"`
	SizeKB            float64 `json:"size_kb"`
	Dimensions        string  `json:"dimensions"`
	CreatedAt         string  `json:"created_at"`
}

type Error struct {
	Error string `json:"error"`
}
