package types

import "errors"

// Storage keys used by the shelf. They match the keys the web client writes
// to window.localStorage, so either side can read the other's data.
const (
	ItemsKey = "pocket-shelf-items"
	PrefsKey = "pocket-shelf-prefs"
)

// Storage is a durable string key-value store with localStorage semantics.
// Implementations live in internal/kv.
type Storage interface {
	// Get returns the value stored under key. ok is false when the key is
	// absent; err is reserved for backend failures.
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error

	// Close releases backend resources. Idempotent.
	Close() error
}

// Store operation errors.
var (
	ErrNotFound      = errors.New("item not found")
	ErrInvalidID     = errors.New("invalid item ID")
	ErrInvalidTitle  = errors.New("title must not be empty")
	ErrInvalidStatus = errors.New("invalid status value")
	ErrInvalidSort   = errors.New("invalid sort value")
	ErrInvalidFilter = errors.New("invalid filter value")
	ErrAmbiguousID   = errors.New("ambiguous item ID prefix")
)

// Persistence errors.
var (
	// ErrNotSaved wraps a failed write after a mutation that was applied in
	// memory. The change is kept for the session but may be lost on restart.
	ErrNotSaved   = errors.New("changes may not be saved")
	ErrInvalidKey = errors.New("invalid storage key")
	ErrClosed     = errors.New("storage is closed")
)
