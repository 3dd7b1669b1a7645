package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pocketshelf/pkg/types"
)

func newAddCmd(a *app) *cobra.Command {
	var draft types.Draft

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add an article or book to the shelf",
		Long:  "Add an item to the front of the shelf with status Plan. Words after the\ncommand are joined into the title.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			draft.Title = strings.Join(args, " ")
			item, err := store.AddItem(draft)
			if err := settle(cmd, err); err != nil {
				return err
			}

			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), item)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", shortID(item.ID), item.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&draft.Author, "author", "", "author name")
	cmd.Flags().StringVar(&draft.Link, "link", "", "URL of the article or book")
	cmd.Flags().StringVar(&draft.Notes, "notes", "", "free-form notes")
	return cmd
}
