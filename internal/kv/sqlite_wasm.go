//go:build js && wasm

package kv

import (
	"errors"

	"github.com/mesh-intelligence/pocketshelf/pkg/types"
)

// errSQLiteUnsupported is returned in the browser, where modernc.org/libc
// has no port.
var errSQLiteUnsupported = errors.New("sqlite backend is not available in the browser build")

var _ types.Storage = (*SQLite)(nil)

// SQLite is unavailable under js/wasm; use the localstorage backend.
type SQLite struct{}

// NewSQLite always fails in the browser build.
func NewSQLite(dir string) (*SQLite, error) {
	return nil, errSQLiteUnsupported
}

func (*SQLite) Get(string) (string, bool, error) { return "", false, errSQLiteUnsupported }
func (*SQLite) Set(string, string) error         { return errSQLiteUnsupported }
func (*SQLite) Remove(string) error              { return errSQLiteUnsupported }
func (*SQLite) Close() error                     { return nil }
