package cli

import (
	"fmt"

	backend "github.com/redis/go-redis/v9"

	"github.com/jnothman/searchgrid/pkg/adapters/memory"
	redisadapter "github.com/jnothman/searchgrid/pkg/adapters/redis"
	"github.com/jnothman/searchgrid/pkg/adapters/sqlite"
	"github.com/jnothman/searchgrid/pkg/ports"
)

// StoreConfig selects the spec storage backend for the serve command.
type StoreConfig struct {
	Backend  string // "memory", "sqlite" or "redis"
	Path     string // sqlite database file; empty for the default location
	RedisURL string // redis connection URL, e.g. redis://localhost:6379/0
}

// OpenStore builds the configured SpecStore. The returned closer releases
// backend resources; it is a no-op for the in-memory store.
func OpenStore(cfg StoreConfig) (ports.SpecStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case "", "memory":
		return memory.NewStore(), noop, nil
	case "sqlite":
		store, err := sqlite.NewStore(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return store, store.Close, nil
	case "redis":
		redisOpts, err := backend.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := backend.NewClient(redisOpts)
		return redisadapter.NewFromClient(client), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q (supported: memory, sqlite, redis)", cfg.Backend)
	}
}
