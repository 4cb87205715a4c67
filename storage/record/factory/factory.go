package factory

import (
	"fmt"
	"sync"

	"github.com/indieinfra/mediavault/config"
	"github.com/indieinfra/mediavault/storage/record"
)

// Factory builds a record repository for the provided records config.
type Factory func(*config.Records) (record.Repository, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register adds or replaces a repository factory for the given strategy name.
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

// Create builds a repository using the registered factory for the
// configured strategy.
func Create(cfg *config.Records) (record.Repository, error) {
	if f, ok := Get(cfg.Strategy); ok {
		return f(cfg)
	}

	return nil, fmt.Errorf("unknown records strategy %q", cfg.Strategy)
}

func init() {
	Register("sql", func(cfg *config.Records) (record.Repository, error) {
		return record.NewSQLRepository(cfg.Sql, cfg.TablePrefix)
	})
	Register("d1", func(cfg *config.Records) (record.Repository, error) {
		return record.NewD1Repository(cfg.D1, cfg.TablePrefix)
	})
	Register("memory", func(cfg *config.Records) (record.Repository, error) {
		return record.NewMemoryRepository(), nil
	})
}
