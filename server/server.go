package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/indieinfra/mediavault/config"
	"github.com/indieinfra/mediavault/server/handler/list"
	"github.com/indieinfra/mediavault/server/handler/remove"
	"github.com/indieinfra/mediavault/server/handler/stats"
	"github.com/indieinfra/mediavault/server/handler/upload"
	"github.com/indieinfra/mediavault/server/middleware"
	"github.com/indieinfra/mediavault/server/state"
	"github.com/indieinfra/mediavault/service"
	backendfactory "github.com/indieinfra/mediavault/storage/backend/factory"
	recordfactory "github.com/indieinfra/mediavault/storage/record/factory"
)

// BuildState constructs the storage backend, the record repository, and the
// services on top of them, per the loaded configuration.
func BuildState(cfg *config.Config) (*state.VaultState, error) {
	store, err := backendfactory.Create(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to build storage backend: %w", err)
	}

	records, err := recordfactory.Create(&cfg.Records)
	if err != nil {
		return nil, fmt.Errorf("failed to build record repository: %w", err)
	}

	timeout := time.Duration(cfg.Storage.TimeoutSeconds) * time.Second
	maxBytes := int64(cfg.Server.Limits.MaxFileSize)

	return &state.VaultState{
		Cfg:     cfg,
		Uploads: service.NewUploadService(store, records, maxBytes, timeout, log.Default()),
		Deletes: service.NewDeleteService(store, records, timeout, log.Default()),
		Queries: service.NewQueryService(records, cfg.Server.Limits.MaxPageSize),
		Stats:   service.NewStatsService(records),
	}, nil
}

// Router assembles the http mux. Every route runs behind the owner-identity
// middleware; there are no anonymous operations in this service.
func Router(st *state.VaultState) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /media", middleware.RequireOwnerIdentity(st.Cfg, upload.HandleUpload(st)))
	mux.Handle("GET /media", middleware.RequireOwnerIdentity(st.Cfg, list.HandleList(st)))
	mux.Handle("GET /media/stats", middleware.RequireOwnerIdentity(st.Cfg, stats.HandleStats(st)))
	mux.Handle("DELETE /media/{id}", middleware.RequireOwnerIdentity(st.Cfg, remove.HandleRemove(st)))

	return mux
}

func StartServer(cfg *config.Config) error {
	st, err := BuildState(cfg)
	if err != nil {
		return err
	}

	bindAddress := fmt.Sprintf("%v:%v", cfg.Server.Address, cfg.Server.Port)
	log.Printf("serving http requests on %q", bindAddress)
	return http.ListenAndServe(bindAddress, Router(st))
}
