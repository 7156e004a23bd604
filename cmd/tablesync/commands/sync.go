package commands

import (
	"fmt"
	"io"
	"niopendata/lib/tablesync"
	"niopendata/lib/timezone"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var syncFlags struct {
	append  bool
	prepend bool
	week    bool
	parent  string
	header  string
	index   []string
}

func init() {
	flags := syncCmd.Flags()
	flags.BoolVar(&syncFlags.append, "append", false, "Add the single row at the end unless its index is already present.")
	flags.BoolVar(&syncFlags.prepend, "prepend", false, "Add the single row at the start unless its index is already present.")
	flags.BoolVar(&syncFlags.week, "week", false, "Index the single row by the current ISO week (e.g. W07).")
	flags.StringVar(&syncFlags.parent, "parent", "", "Id of the page a new page is created under.")
	flags.StringVar(&syncFlags.header, "header", "", "HTML placed above the table when the page is created.")
	flags.StringSliceVar(&syncFlags.index, "index", nil, "Replace the row indices, one per row.")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync <space> <title> <data.json5> [--append|--prepend] [--parent <id>] [--index a,b]",
	Short: "Publish a data file to the table on a page, writing only when it changes.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		config := getGlobals(ctx).config

		data, err := readDataFile(args[2])
		if err != nil {
			return err
		}
		schema, rows, err := data.Table()
		if err != nil {
			return err
		}

		newIndex := syncFlags.index
		if syncFlags.week {
			if newIndex != nil {
				return fmt.Errorf("--week and --index cannot be combined")
			}
			newIndex = []string{timezone.WeekLabel(timezone.Now())}
		}

		store, err := openStore(ctx, config)
		if err != nil {
			return err
		}
		defer store.Close()

		res, err := tablesync.NewSynchronizer(store).Sync(ctx, tablesync.Request{
			Space:    args[0],
			Title:    args[1],
			Parent:   syncFlags.parent,
			Schema:   schema,
			Rows:     rows,
			NewIndex: newIndex,
			Append:   syncFlags.append,
			Prepend:  syncFlags.prepend,
			Header:   syncFlags.header,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: page %s (version %d)\n", res.Outcome, res.Page.ID, res.Page.Version)
		printDiffs(out, res.Diffs)
		return nil
	},
}

func printDiffs(out io.Writer, diffs map[string]tablesync.Diff) {
	if len(diffs) == 0 {
		return
	}
	indices := make([]string, 0, len(diffs))
	for index := range diffs {
		indices = append(indices, index)
	}
	slices.Sort(indices)

	t := newTable(out)
	t.AppendHeader(table.Row{"Index", "Field", "Old", "New"})
	for _, index := range indices {
		d := diffs[index]
		for _, field := range d.Fields() {
			t.AppendRow(table.Row{index, field, d[field].Old, d[field].New})
		}
		t.AppendSeparator()
	}
	t.Render()
}
