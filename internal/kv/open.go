package kv

import (
	"fmt"

	"github.com/mesh-intelligence/pocketshelf/pkg/types"
)

// Open validates cfg and returns the selected backend. The caller must
// Close the returned storage.
func Open(cfg types.Config) (types.Storage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case types.BackendMemory:
		return NewMemory(), nil
	case types.BackendFile:
		return NewFile(cfg.DataDir)
	case types.BackendSQLite:
		return NewSQLite(cfg.DataDir)
	case types.BackendLocalStorage:
		return openLocalStorage()
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrBackendUnknown, cfg.Backend)
	}
}
