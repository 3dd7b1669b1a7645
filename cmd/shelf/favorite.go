package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFavoriteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "favorite <id>",
		Aliases: []string{"fav"},
		Short:   "Toggle the favorite flag of an item",
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
			fav, err := store.ToggleFavorite(item.ID)
			if err := settle(cmd, err); err != nil {
				return err
			}

			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]any{"id": item.ID, "favorite": fav})
			}
			verb := "Unfavorited"
			if fav {
				verb = "Favorited"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", verb, shortID(item.ID), item.Title)
			return nil
		},
	}
}
