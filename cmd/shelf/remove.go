package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove an item from the shelf",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			item, err := resolveItem(store, args[0])
			if err != nil {
				return err
			}
			if err := settle(cmd, store.RemoveItem(item.ID)); err != nil {
				return err
			}

			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]string{"removed": item.ID})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s %s\n", shortID(item.ID), item.Title)
			return nil
		},
	}
}
