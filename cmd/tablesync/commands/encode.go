package commands

import (
	"fmt"
	"niopendata/lib/htmltable"

	"github.com/spf13/cobra"
)

var encodeOmitIndex bool

func init() {
	encodeCmd.Flags().BoolVar(&encodeOmitIndex, "omit-index", false, "Leave out the index column.")
	rootCmd.AddCommand(encodeCmd)
}

var encodeCmd = &cobra.Command{
	Use:   "encode <data.json5>",
	Short: "Print the HTML table for a data file.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readDataFile(args[0])
		if err != nil {
			return err
		}
		schema, rows, err := data.Table()
		if err != nil {
			return err
		}
		out, err := htmltable.Encode(schema, rows, htmltable.EncodeOptions{
			Formatter: htmltable.DefaultFormatter,
			OmitIndex: encodeOmitIndex,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}
