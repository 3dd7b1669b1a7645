// Package paths decides where the shelf keeps its configuration and data:
// the config and data directories, and the files each storage backend
// creates inside the data directory.
package paths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/mesh-intelligence/pocketshelf/pkg/types"
)

// appName names the per-user directories.
const appName = "pocketshelf"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "POCKETSHELF_CONFIG_DIR"
	EnvDataDir   = "POCKETSHELF_DATA_DIR"
)

// Files created inside the data directory.
const (
	SQLiteFileName = "shelf.db"
	KeyFileExt     = ".json"
)

// Resolver resolves directories against an environment. System returns the
// one backed by the running process; tests build their own.
type Resolver struct {
	GOOS          string
	Getenv        func(string) string
	HomeDir       func() (string, error)
	UserConfigDir func() (string, error)
}

// System returns a Resolver for the current process and platform.
func System() Resolver {
	return Resolver{
		GOOS:          runtime.GOOS,
		Getenv:        os.Getenv,
		HomeDir:       os.UserHomeDir,
		UserConfigDir: os.UserConfigDir,
	}
}

// userDir returns the per-user application directory. On Linux it follows
// the XDG variable xdgVar, falling back to ~/<linuxHome...>; elsewhere it
// uses os.UserConfigDir (~/Library/Application Support, %AppData%).
func (r Resolver) userDir(xdgVar string, linuxHome ...string) (string, error) {
	if r.GOOS != "linux" {
		dir, err := r.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
	if xdg := r.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := r.HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, linuxHome...), appName)...), nil
}

// DefaultConfigDir returns the platform configuration directory.
func (r Resolver) DefaultConfigDir() (string, error) {
	return r.userDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory.
func (r Resolver) DefaultDataDir() (string, error) {
	return r.userDir("XDG_DATA_HOME", ".local", "share")
}

// firstAbs returns the first non-empty candidate made absolute, or
// fallback() when every candidate is empty.
func firstAbs(fallback func() (string, error), candidates ...string) (string, error) {
	for _, c := range candidates {
		if c != "" {
			return filepath.Abs(c)
		}
	}
	return fallback()
}

// ConfigDir resolves flag > POCKETSHELF_CONFIG_DIR > DefaultConfigDir.
func (r Resolver) ConfigDir(flag string) (string, error) {
	return firstAbs(r.DefaultConfigDir, flag, r.Getenv(EnvConfigDir))
}

// DataDir resolves flag > config.yaml data_dir > POCKETSHELF_DATA_DIR >
// DefaultDataDir.
func (r Resolver) DataDir(flag, configValue string) (string, error) {
	return firstAbs(r.DefaultDataDir, flag, configValue, r.Getenv(EnvDataDir))
}

// StorageDir returns the data directory backend needs, or "" for backends
// that keep nothing on the local disk.
func (r Resolver) StorageDir(backend, flag, configValue string) (string, error) {
	switch backend {
	case types.BackendMemory, types.BackendLocalStorage:
		return "", nil
	default:
		return r.DataDir(flag, configValue)
	}
}

// DefaultConfigDir is System().DefaultConfigDir.
func DefaultConfigDir() (string, error) { return System().DefaultConfigDir() }

// DefaultDataDir is System().DefaultDataDir.
func DefaultDataDir() (string, error) { return System().DefaultDataDir() }

// ResolveConfigDir is System().ConfigDir.
func ResolveConfigDir(flag string) (string, error) { return System().ConfigDir(flag) }

// ResolveDataDir is System().DataDir.
func ResolveDataDir(flag, configValue string) (string, error) {
	return System().DataDir(flag, configValue)
}

// ResolveStorageDir is System().StorageDir.
func ResolveStorageDir(backend, flag, configValue string) (string, error) {
	return System().StorageDir(backend, flag, configValue)
}

// SQLiteFile is the database path of the sqlite backend.
func SQLiteFile(dataDir string) string {
	return filepath.Join(dataDir, SQLiteFileName)
}

// KeyFile is the path the file backend stores key under.
func KeyFile(dataDir, key string) string {
	return filepath.Join(dataDir, key+KeyFileExt)
}

// StorageLocation names what backend writes under dataDir: the database for
// sqlite, the key-file directory for file, and "" otherwise.
func StorageLocation(backend, dataDir string) string {
	switch backend {
	case types.BackendSQLite:
		return SQLiteFile(dataDir)
	case types.BackendFile:
		return dataDir
	default:
		return ""
	}
}
