package common

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/indieinfra/mediavault/media"
	"github.com/indieinfra/mediavault/server/resp"
	"github.com/indieinfra/mediavault/server/util"
)

// LogAndWriteError logs an error with request context and maps the media
// error taxonomy to client responses. Each kind stays a distinct,
// caller-visible outcome; nothing collapses into a generic failure except
// genuinely unknown errors.
func LogAndWriteError(w http.ResponseWriter, r *http.Request, op string, err error) {
	rl := util.FromContext(r.Context())
	if rl == nil {
		rl = util.WithRequest(log.Default(), r, "")
	}
	rl.Errorf("media %s failed: %v", op, err)

	var validationErr *media.ValidationError
	var backendErr *media.BackendError
	var persistenceErr *media.PersistenceError

	switch {
	case errors.As(err, &validationErr):
		resp.WriteInvalidRequest(w, validationErr.Reason)
	case errors.Is(err, media.ErrNotFound):
		resp.WriteNotFound(w, "not found")
	case errors.As(err, &backendErr):
		resp.WriteBadGateway(w, "storage backend is unavailable")
	case errors.As(err, &persistenceErr):
		resp.WriteInternalServerError(w, "could not persist media metadata")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// The client is gone; nothing useful to write.
	default:
		resp.WriteInternalServerError(w, op+" failed")
	}
}
