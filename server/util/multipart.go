package util

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/indieinfra/mediavault/server/resp"
)

// UploadFileField is the multipart field name the upload endpoint expects.
const UploadFileField = "file"

// ParseUploadFile parses a multipart upload request and returns the file
// part. The whole body is bounded at maxFileSize plus a little headroom for
// the multipart framing; larger requests are rejected before the backend is
// touched. The caller owns closing the returned file on the success path.
func ParseUploadFile(w http.ResponseWriter, r *http.Request, maxMemory, maxFileSize int64) (multipart.File, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFileSize+(64<<10))

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			resp.WritePayloadTooLarge(w, "file exceeds the maximum allowed size")
		} else {
			resp.WriteInvalidRequest(w, "could not parse multipart body")
		}
		return nil, nil, false
	}

	file, header, err := r.FormFile(UploadFileField)
	if err != nil {
		resp.WriteInvalidRequest(w, "a \"file\" part is required")
		return nil, nil, false
	}

	return file, header, true
}
