//go:build js && wasm

// This file implements the browser backend over window.localStorage.
package kv

import (
	"errors"
	"fmt"
	"syscall/js"

	"github.com/mesh-intelligence/pocketshelf/pkg/types"
)

// Compile-time interface check.
var _ types.Storage = (*LocalStorage)(nil)

// errNoLocalStorage is returned when the page exposes no localStorage
// (private browsing modes, sandboxed frames).
var errNoLocalStorage = errors.New("window.localStorage is unavailable")

// LocalStorage adapts window.localStorage to types.Storage.
type LocalStorage struct {
	ls js.Value
}

// NewLocalStorage binds to window.localStorage.
func NewLocalStorage() (*LocalStorage, error) {
	ls, err := call(func() js.Value { return js.Global().Get("localStorage") })
	if err != nil {
		return nil, err
	}
	if ls.IsUndefined() || ls.IsNull() {
		return nil, errNoLocalStorage
	}
	return &LocalStorage{ls: ls}, nil
}

func openLocalStorage() (types.Storage, error) {
	return NewLocalStorage()
}

// Get calls localStorage.getItem. A null result reports ok=false.
func (l *LocalStorage) Get(key string) (string, bool, error) {
	v, err := call(func() js.Value { return l.ls.Call("getItem", key) })
	if err != nil {
		return "", false, fmt.Errorf("getting %s: %w", key, err)
	}
	if v.IsNull() || v.IsUndefined() {
		return "", false, nil
	}
	return v.String(), true, nil
}

// Set calls localStorage.setItem. A QuotaExceededError surfaces as an error.
func (l *LocalStorage) Set(key, value string) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	if _, err := call(func() js.Value { return l.ls.Call("setItem", key, value) }); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// Remove calls localStorage.removeItem.
func (l *LocalStorage) Remove(key string) error {
	if _, err := call(func() js.Value { return l.ls.Call("removeItem", key) }); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// Close is a no-op; the page owns localStorage.
func (l *LocalStorage) Close() error {
	return nil
}

// call runs fn and converts a thrown JS exception into an error.
func call(fn func() js.Value) (v js.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = jsErr
				return
			}
			err = fmt.Errorf("localStorage: %v", r)
		}
	}()
	return fn(), nil
}
