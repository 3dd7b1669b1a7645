//go:build mage

// Package main provides build targets for the Pocket Shelf project using Mage.
//
// Usage:
//
//	mage build          Compile the shelf binary to bin/
//	mage buildWasm      Compile the browser build to web/shelf.wasm
//	mage test:all       Run all tests
//	mage test:race      Run all tests with the race detector
//	mage test:cover     Run tests and write coverage.out
//	mage test:wasm      Vet the js/wasm browser build
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install shelf to GOPATH/bin
//	mage stats          Print Go LOC and documentation word counts
package main

const (
	binGo      = "go"
	binaryName = "shelf"
	binaryDir  = "bin"
	cmdDir     = "./cmd/shelf"

	wasmCmdDir = "./cmd/shelfwasm"
	webDir     = "web"
	wasmName   = "shelf.wasm"
)
