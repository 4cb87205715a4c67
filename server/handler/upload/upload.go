package upload

import (
	"net/http"

	"github.com/indieinfra/mediavault/server/auth"
	"github.com/indieinfra/mediavault/server/handler/common"
	"github.com/indieinfra/mediavault/server/resp"
	"github.com/indieinfra/mediavault/server/state"
	"github.com/indieinfra/mediavault/server/util"
	"github.com/indieinfra/mediavault/service"
)

func HandleUpload(st *state.VaultState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !util.RequireMultipartContentType(w, r) {
			return
		}

		maxMemory := int64(st.Cfg.Server.Limits.MaxMultipartMem)
		maxSize := int64(st.Cfg.Server.Limits.MaxFileSize)
		file, header, ok := util.ParseUploadFile(w, r, maxMemory, maxSize)
		if !ok {
			return
		}
		defer file.Close()

		rec, err := st.Uploads.Upload(r.Context(), service.UploadParams{
			OwnerID:      auth.OwnerID(r.Context()),
			Filename:     header.Filename,
			ContentType:  header.Header.Get("Content-Type"),
			DeclaredSize: header.Size,
			Body:         file,
		})
		if err != nil {
			common.LogAndWriteError(w, r, "upload", err)
			return
		}

		resp.WriteCreated(w, rec.Location, rec)
	}
}
