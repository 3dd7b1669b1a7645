package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pocketshelf/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize shelf configuration and storage",
		Long:  "Create the configuration and data directories, write config.yaml if it is\nmissing, and write an empty shelf to the storage backend.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := writeConfigIfMissing(a.configDir, configFile{
				Backend: a.backend(),
				DataDir: a.flags.dataDir,
			})
			if err != nil {
				return sysErr(err)
			}

			store, closeFn, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			if err := store.Save(); err != nil {
				return sysErr(fmt.Errorf("initialize storage: %w", err))
			}

			out := cmd.OutOrStdout()
			if written {
				fmt.Fprintf(out, "Wrote %s\n", filepath.Join(a.configDir, configFileExt))
			}
			fmt.Fprintf(out, "Shelf initialized (%s backend, %d items)\n", a.backend(), len(store.Items()))
			if dataDir, err := a.storageDir(); err == nil {
				if loc := paths.StorageLocation(a.backend(), dataDir); loc != "" {
					fmt.Fprintf(out, "Data: %s\n", loc)
				}
			}
			return nil
		},
	}
}
