package list

import (
	"net/http"
	"strconv"

	"github.com/indieinfra/mediavault/media"
	"github.com/indieinfra/mediavault/server/auth"
	"github.com/indieinfra/mediavault/server/handler/common"
	"github.com/indieinfra/mediavault/server/resp"
	"github.com/indieinfra/mediavault/server/state"
	"github.com/indieinfra/mediavault/service"
)

type listResponse struct {
	Media      []*media.Record    `json:"media"`
	Pagination service.Pagination `json:"pagination"`
}

func HandleList(st *state.VaultState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := service.ListParams{
			Page:  intQuery(r, "page"),
			Limit: intQuery(r, "limit"),
			Type:  r.URL.Query().Get("type"),
		}

		page, err := st.Queries.List(r.Context(), auth.OwnerID(r.Context()), params)
		if err != nil {
			common.LogAndWriteError(w, r, "list", err)
			return
		}

		resp.WriteOK(w, listResponse{
			Media:      page.Records,
			Pagination: page.Pagination,
		})
	}
}

// intQuery parses a positive integer query parameter; absent or malformed
// values come back as 0 and fall to the service defaults.
func intQuery(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}

	return n
}
