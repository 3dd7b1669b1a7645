package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pocketshelf/pkg/types"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <backlog|reading|completed>",
		Short: "Set the reading status of an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := types.ParseStatus(args[1])
			if err != nil {
				return userErr(err)
			}

			store, closeFn, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			item, err := resolveItem(store, args[0])
			if err != nil {
				return err
			}
			if err := settle(cmd, store.UpdateStatus(item.ID, status)); err != nil {
				return err
			}

			if a.flags.jsonMode {
				item.Status = status
				return printJSON(cmd.OutOrStdout(), item)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", shortID(item.ID), item.Title, status.Label())
			return nil
		},
	}
}
