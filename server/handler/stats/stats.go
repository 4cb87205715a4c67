package stats

import (
	"net/http"

	"github.com/indieinfra/mediavault/server/auth"
	"github.com/indieinfra/mediavault/server/handler/common"
	"github.com/indieinfra/mediavault/server/resp"
	"github.com/indieinfra/mediavault/server/state"
)

func HandleStats(st *state.VaultState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := st.Stats.ForOwner(r.Context(), auth.OwnerID(r.Context()))
		if err != nil {
			common.LogAndWriteError(w, r, "stats", err)
			return
		}

		resp.WriteOK(w, stats)
	}
}
