package state

import (
	"github.com/indieinfra/mediavault/config"
	"github.com/indieinfra/mediavault/service"
)

// VaultState bundles the configuration and the constructed services the
// handlers need. It is built once at startup and handed to each handler,
// so tests can substitute in-memory stores without touching globals.
type VaultState struct {
	Cfg     *config.Config
	Uploads *service.UploadService
	Deletes *service.DeleteService
	Queries *service.QueryService
	Stats   *service.StatsService
}
