package commands

import (
	"fmt"
	"niopendata/lib/htmltable"
	"niopendata/lib/pagestore"
	"niopendata/lib/tree"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <space> <title>",
	Short: "Decode the table on a page and print it.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx, getGlobals(ctx).config)
		if err != nil {
			return err
		}
		defer store.Close()

		ref, err := store.GetPageByTitle(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		page, err := store.GetPageByID(ctx, ref.ID, pagestore.ExpandBody)
		if err != nil {
			return err
		}
		schema, rows, err := htmltable.DecodeHTML(strings.NewReader(page.Body))
		if err != nil {
			return fmt.Errorf("decode table on page %s: %w", ref.ID, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s / %s (page %s, version %d)\n", ref.Space, ref.Title, ref.ID, ref.Version)
		renderRows(cmd, schema.Without(htmltable.IndexLabel), rows)
		return nil
	},
}

func renderRows(cmd *cobra.Command, schema tree.Branch, rows []htmltable.Row) {
	paths := tree.Paths(schema)

	header := table.Row{"Index"}
	for _, p := range paths {
		header = append(header, p.Join(" / "))
	}

	t := newTable(cmd.OutOrStdout())
	t.AppendHeader(header)
	for _, r := range rows {
		line := table.Row{r.Index}
		for _, p := range paths {
			var text string
			if n, ok := tree.Lookup(r.Record, p); ok {
				if leaf, ok := n.(tree.Leaf); ok && len(leaf.Values) > 0 {
					text = htmltable.Stringify(leaf.Values[0])
				}
			}
			line = append(line, text)
		}
		t.AppendRow(line)
	}
	t.Render()
}
