package media

import (
	"strings"
	"time"
)

// FileType is the coarse classification of an uploaded file, derived from
// its MIME type at ingestion and immutable afterwards.
type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypeVideo FileType = "video"
)

// ParseFileType maps a user-supplied filter value to a FileType. The second
// return is false for unrecognized values, which callers treat as "no
// filter" rather than an error.
func ParseFileType(s string) (FileType, bool) {
	switch FileType(s) {
	case FileTypeImage:
		return FileTypeImage, true
	case FileTypeVideo:
		return FileTypeVideo, true
	default:
		return "", false
	}
}

// Record is the persisted metadata describing one uploaded file. Records
// are created atomically by the upload pipeline and never mutated; the only
// state transition left is deletion, which is terminal.
type Record struct {
	ID           string   `json:"id"`
	OwnerID      string   `json:"-"`
	OriginalName string   `json:"originalName"`
	FileType     FileType `json:"fileType"`
	MIMEType     string   `json:"mimeType"`
	SizeBytes    int64    `json:"sizeBytes"`
	// StorageBackend names the backend variant that holds the artifact.
	// BackendRef is opaque outside that backend.
	StorageBackend string    `json:"-"`
	BackendRef     string    `json:"-"`
	Location       string    `json:"location"`
	CreatedAt      time.Time `json:"createdAt"`
}

// allowedMIMETypes is the fixed ingestion allow-list.
var allowedMIMETypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/jpg":       {},
	"image/png":       {},
	"image/gif":       {},
	"image/webp":      {},
	"video/mp4":       {},
	"video/mpeg":      {},
	"video/quicktime": {},
	"video/x-msvideo": {},
	"video/webm":      {},
}

// MIMETypeAllowed reports whether the declared MIME type is accepted for
// ingestion.
func MIMETypeAllowed(mimeType string) bool {
	_, ok := allowedMIMETypes[strings.ToLower(strings.TrimSpace(mimeType))]
	return ok
}

// DeriveFileType classifies an allow-listed MIME type: an "image/" prefix
// means image, everything else is a video.
func DeriveFileType(mimeType string) FileType {
	if strings.HasPrefix(strings.ToLower(mimeType), "image/") {
		return FileTypeImage
	}

	return FileTypeVideo
}

// ValidateUpload checks the declared MIME type and size against the
// allow-list and the configured ceiling. It runs before any backend call is
// made, so a rejected upload leaves nothing behind.
func ValidateUpload(mimeType string, sizeBytes int64, maxBytes int64) error {
	if !MIMETypeAllowed(mimeType) {
		return &ValidationError{Reason: "mime type " + mimeType + " is not allowed; only images and videos are accepted"}
	}

	if sizeBytes <= 0 {
		return &ValidationError{Reason: "file size must be greater than zero"}
	}

	if maxBytes > 0 && sizeBytes > maxBytes {
		return &ValidationError{Reason: "file exceeds the maximum allowed size"}
	}

	return nil
}
