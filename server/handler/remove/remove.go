package remove

import (
	"net/http"

	"github.com/indieinfra/mediavault/server/auth"
	"github.com/indieinfra/mediavault/server/handler/common"
	"github.com/indieinfra/mediavault/server/resp"
	"github.com/indieinfra/mediavault/server/state"
)

func HandleRemove(st *state.VaultState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			resp.WriteInvalidRequest(w, "a media id is required")
			return
		}

		if err := st.Deletes.Delete(r.Context(), auth.OwnerID(r.Context()), id); err != nil {
			common.LogAndWriteError(w, r, "delete", err)
			return
		}

		resp.WriteNoContent(w)
	}
}
