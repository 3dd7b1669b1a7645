//go:build mage

package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Build compiles the shelf binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// BuildWasm compiles the browser build and copies wasm_exec.js next to it.
func BuildWasm() error {
	if err := os.MkdirAll(webDir, 0o755); err != nil {
		return err
	}
	env := map[string]string{"GOOS": "js", "GOARCH": "wasm"}
	if err := sh.RunWithV(env, binGo, "build", "-o", filepath.Join(webDir, wasmName), wasmCmdDir); err != nil {
		return err
	}

	goroot, err := sh.Output(binGo, "env", "GOROOT")
	if err != nil {
		return err
	}
	goroot = strings.TrimSpace(goroot)
	// wasm_exec.js moved from misc/wasm to lib/wasm in Go 1.24.
	for _, rel := range []string{"lib/wasm/wasm_exec.js", "misc/wasm/wasm_exec.js"} {
		src := filepath.Join(goroot, rel)
		if _, err := os.Stat(src); err == nil {
			return sh.Copy(filepath.Join(webDir, "wasm_exec.js"), src)
		}
	}
	return nil
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(webDir, wasmName)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
