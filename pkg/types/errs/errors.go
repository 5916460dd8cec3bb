package errs

import "errors"

// Upload validation failures, in the order the pipeline checks them.
var (
	ErrTransfer    = errors.New("transfer failed")
	ErrEmptyFile   = errors.New("file is empty")
	ErrTooLarge    = errors.New("file too large")
	ErrInvalidType = errors.New("invalid file type")
)

// Thumbnail generation failures.
var (
	ErrUndecodable = errors.New("image is not decodable")
	ErrEncode      = errors.New("thumbnail encode failed")
)

// Persistence failures.
var (
	ErrStorageWrite = errors.New("storage write failed")
	ErrMetadata     = errors.New("metadata write failed")
)

// Lookup outcomes. ErrFilesMissing means the id is known but its files are
// gone from storage, a consistency anomaly worth telling apart from a plain
// unknown id.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrFilesMissing   = errors.New("record files missing")
)
