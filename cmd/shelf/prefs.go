package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pocketshelf/pkg/types"
)

func newPrefsCmd(a *app) *cobra.Command {
	var sortFlag, filterFlag string

	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change the saved sort and filter",
		Long:  "With no flags, print the saved preferences. --sort and --filter change them.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch types.PreferencesPatch
			if cmd.Flags().Changed("sort") {
				mode, err := types.ParseSortMode(sortFlag)
				if err != nil {
					return userErr(err)
				}
				patch.Sort = &mode
			}
			if cmd.Flags().Changed("filter") {
				filter, err := types.ParseFilter(filterFlag)
				if err != nil {
					return userErr(err)
				}
				patch.Filter = &filter
			}

			store, closeFn, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			prefs := store.Preferences()
			if patch.Sort != nil || patch.Filter != nil {
				var setErr error
				prefs, setErr = store.SetPreferences(patch)
				if err := settle(cmd, setErr); err != nil {
					return err
				}
			}

			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), prefs)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sort:   %s\nfilter: %s\n", prefs.Sort, prefs.Filter)
			return nil
		},
	}

	cmd.Flags().StringVar(&sortFlag, "sort", "", "sort mode: recent, favorite, alpha")
	cmd.Flags().StringVar(&filterFlag, "filter", "", "status filter: all, backlog, reading, completed")
	return cmd
}
