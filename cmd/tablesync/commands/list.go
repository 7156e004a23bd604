package commands

import (
	"fmt"
	"niopendata/lib/pagestore/sqlstore"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list <space>",
	Short: "List the pages of a space in the local page store.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx, getGlobals(ctx).config)
		if err != nil {
			return err
		}
		defer store.Close()

		local, ok := store.Store.(sqlstore.Store)
		if !ok {
			return fmt.Errorf("list only works with the %q store", storeSqlite)
		}
		pages, err := local.ListPages(ctx, args[0])
		if err != nil {
			return err
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Id", "Title", "Version"})
		for _, p := range pages {
			t.AppendRow(table.Row{p.ID, p.Title, p.Version})
		}
		t.Render()
		return nil
	},
}
