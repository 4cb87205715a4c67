package util

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/indieinfra/mediavault/server/resp"
)

// RequireMultipartContentType ensures an upload request is multipart/form-data.
func RequireMultipartContentType(w http.ResponseWriter, r *http.Request) bool {
	mediaType, ok := ExtractMediaType(w, r)
	if !ok {
		return false
	}

	if mediaType != "multipart/form-data" {
		resp.WriteUnsupportedMediaType(w, "uploads must be multipart/form-data")
		return false
	}

	return true
}

// ExtractMediaType parses the request Content-Type header, writing an error
// response when it is absent or malformed.
func ExtractMediaType(w http.ResponseWriter, r *http.Request) (string, bool) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		resp.WriteUnsupportedMediaType(w, "Content-Type must be specified")
		return "", false
	}

	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		resp.WriteUnsupportedMediaType(w, fmt.Errorf("invalid Content-Type: %w", err).Error())
		return "", false
	}

	return mediaType, true
}
