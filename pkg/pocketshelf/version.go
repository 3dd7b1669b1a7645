// Package pocketshelf carries release metadata shared by the shelf binaries.
package pocketshelf

// Version is the release version of the shelf tools.
const Version = "0.3.0"

// ModulePath is the Go module path of this repository.
const ModulePath = "github.com/mesh-intelligence/pocketshelf"
