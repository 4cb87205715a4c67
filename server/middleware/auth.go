package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/indieinfra/mediavault/config"
	"github.com/indieinfra/mediavault/server/auth"
	"github.com/indieinfra/mediavault/server/resp"
	"github.com/indieinfra/mediavault/server/util"
)

// RequireOwnerIdentity wraps a downstream handler. Credential verification
// happens upstream (the gateway or auth service in front of this one); by
// the time a request arrives here, the verified owner identity is asserted
// in the configured header. Requests without it are rejected before
// dispatch, since every operation in this service is owner-scoped.
func RequireOwnerIdentity(cfg *config.Config, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID := strings.TrimSpace(r.Header.Get(cfg.Auth.IdentityHeader))
		if ownerID == "" {
			resp.WriteUnauthorized(w, "a verified owner identity is required")
			return
		}

		rl := util.WithRequest(log.Default(), r, ownerID)
		ctx := util.ContextWithLogger(r.Context(), rl)
		next.ServeHTTP(w, r.WithContext(auth.WithOwner(ctx, ownerID)))
	})
}
