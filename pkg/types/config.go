// Config for selecting and opening a storage backend.
package types

import "errors"

// Config holds backend selection and parameters for kv.Open.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// Supported backend names.
const (
	BackendFile         = "file"
	BackendSQLite       = "sqlite"
	BackendMemory       = "memory"
	BackendLocalStorage = "localstorage"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendFile:         true,
	BackendSQLite:       true,
	BackendMemory:       true,
	BackendLocalStorage: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}
