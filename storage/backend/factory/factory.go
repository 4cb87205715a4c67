package factory

import (
	"fmt"
	"sync"

	"github.com/indieinfra/mediavault/config"
	"github.com/indieinfra/mediavault/storage/backend"
	"github.com/indieinfra/mediavault/storage/backend/local"
	"github.com/indieinfra/mediavault/storage/backend/s3"
	storageutil "github.com/indieinfra/mediavault/storage/util"
)

// Factory builds a storage backend for the provided storage config.
type Factory func(*config.Storage) (backend.Store, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register adds or replaces a backend factory for the given strategy name.
func Register(strategy string, factory Factory) {
	mu.Lock()
	registry[strategy] = factory
	mu.Unlock()
}

// Get retrieves a factory for the given strategy.
func Get(strategy string) (Factory, bool) {
	mu.RLock()
	f, ok := registry[strategy]
	mu.RUnlock()
	return f, ok
}

// Create builds a storage backend using the registered factory for the
// configured strategy.
func Create(cfg *config.Storage) (backend.Store, error) {
	if f, ok := Get(cfg.Strategy); ok {
		return f(cfg)
	}

	return nil, fmt.Errorf("unknown storage strategy %q", cfg.Strategy)
}

func keyPattern(cfg *config.Storage) *storageutil.KeyPattern {
	if cfg.KeyPattern != "" {
		return storageutil.NewKeyPattern(cfg.KeyPattern)
	}

	return storageutil.DefaultKeyPattern()
}

func init() {
	Register("local", func(cfg *config.Storage) (backend.Store, error) {
		return local.NewLocalStore(cfg.Local, keyPattern(cfg))
	})
	Register("s3", func(cfg *config.Storage) (backend.Store, error) {
		return s3.NewS3Store(cfg.S3, keyPattern(cfg))
	})
	Register("memory", func(cfg *config.Storage) (backend.Store, error) {
		pattern := keyPattern(cfg)
		return backend.NewMemoryStore("memory://media/", pattern.Generate), nil
	})
}
