package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pocketshelf/internal/shelf"
	"github.com/mesh-intelligence/pocketshelf/pkg/types"
)

func newListCmd(a *app) *cobra.Command {
	var sortFlag, filterFlag, search string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List shelf items",
		Long:    "List items using the saved sort and filter preferences. --sort and --filter\noverride the preferences for this listing only.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			prefs := store.Preferences()
			if sortFlag != "" {
				if prefs.Sort, err = types.ParseSortMode(sortFlag); err != nil {
					return userErr(err)
				}
			}
			if filterFlag != "" {
				if prefs.Filter, err = types.ParseFilter(filterFlag); err != nil {
					return userErr(err)
				}
			}

			items := shelf.DerivedView(store.Items(), prefs, search)

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(out, items)
			}
			if len(items) == 0 {
				if len(store.Items()) == 0 {
					fmt.Fprintln(out, "Your shelf is empty. Add something with: shelf add <title>")
				} else {
					fmt.Fprintln(out, "No items match.")
				}
				return nil
			}
			printItems(out, items)
			return nil
		},
	}

	cmd.Flags().StringVar(&sortFlag, "sort", "", "sort mode: recent, favorite, alpha")
	cmd.Flags().StringVar(&filterFlag, "filter", "", "status filter: all, backlog, reading, completed")
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive search over title, author, and notes")
	return cmd
}
