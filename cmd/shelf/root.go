// Root command for the shelf CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/pocketshelf/internal/logging"
	"github.com/mesh-intelligence/pocketshelf/internal/paths"
	"github.com/mesh-intelligence/pocketshelf/pkg/pocketshelf"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	jsonMode  bool
	verbose   bool
}

// app is the state shared by every subcommand of one invocation.
type app struct {
	flags     rootFlags
	configDir string
	cfg       *viper.Viper
	logger    *zap.Logger
}

// newRootCmd creates the top-level "shelf" command with global flags and all
// subcommands registered.
func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:     "shelf",
		Short:   "A pocket reading list for articles and books",
		Long:    "Shelf keeps a local reading list: add articles and books, track what you\nplan to read, are reading, and have finished, and find them again.",
		Version: pocketshelf.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	pf.StringVar(&a.flags.backend, "backend", "", "storage backend: file, sqlite, memory (default: file)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output as JSON")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newAddCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newStatusCmd(a))
	root.AddCommand(newFavoriteCmd(a))
	root.AddCommand(newRemoveCmd(a))
	root.AddCommand(newPrefsCmd(a))
	root.AddCommand(newServeCmd(a))

	return root
}

// setup resolves the config directory, reads config.yaml, and builds the
// logger. It runs before every subcommand.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	logger, err := logging.New(a.flags.verbose)
	if err != nil {
		return sysErr(err)
	}
	a.logger = logger

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysErr(fmt.Errorf("resolve config dir: %w", err))
	}
	a.configDir = configDir

	cfg, err := loadConfig(configDir)
	if err != nil {
		return sysErr(err)
	}
	a.cfg = cfg

	a.logger.Debug("configuration loaded",
		zap.String("config_dir", configDir),
		zap.String("backend", a.backend()),
		zap.String("config_file", cfg.ConfigFileUsed()))
	return nil
}

// backend returns the backend name: --backend flag > POCKETSHELF_BACKEND env >
// config.yaml > default.
func (a *app) backend() string {
	if a.flags.backend != "" {
		return a.flags.backend
	}
	if a.cfg != nil {
		return a.cfg.GetString(cfgKeyBackend)
	}
	return defaultBackend
}

// storageDir returns the data directory for the selected backend:
// --data-dir flag > config.yaml data_dir > POCKETSHELF_DATA_DIR env > platform
// default, or "" when the backend keeps nothing on disk.
func (a *app) storageDir() (string, error) {
	var configValue string
	if a.cfg != nil {
		configValue = a.cfg.GetString(cfgKeyDataDir)
	}
	return paths.ResolveStorageDir(a.backend(), a.flags.dataDir, configValue)
}
