//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const coverProfile = "coverage.out"

// Test groups test targets (all, race, cover, wasm).
type Test mg.Namespace

// All runs all tests.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-v", "./...")
}

// Race runs all tests with the race detector.
func (Test) Race() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Cover runs all tests and prints per-function coverage.
func (Test) Cover() error {
	if err := sh.RunV(binGo, "test", "-coverprofile="+coverProfile, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func="+coverProfile)
}

// Wasm vets the browser build and the packages it links for GOOS=js GOARCH=wasm.
func (Test) Wasm() error {
	env := map[string]string{"GOOS": "js", "GOARCH": "wasm"}
	return sh.RunWithV(env, binGo, "vet", wasmCmdDir, "./internal/kv", "./internal/shelf", "./internal/logging", "./pkg/...")
}
