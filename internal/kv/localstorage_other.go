//go:build !(js && wasm)

package kv

import (
	"errors"

	"github.com/mesh-intelligence/pocketshelf/pkg/types"
)

// errLocalStorageUnsupported is returned outside the browser.
var errLocalStorageUnsupported = errors.New("localstorage backend requires GOOS=js GOARCH=wasm")

func openLocalStorage() (types.Storage, error) {
	return nil, errLocalStorageUnsupported
}
