package commands

import (
	"fmt"
	"niopendata/lib/htmltable"
	"niopendata/lib/tree"
	"os"
	"strings"

	"github.com/titanous/json5"
)

type DataRow struct {
	Index  string `json:"index"`
	Values []any  `json:"values"`
}

// DataFile is the json5 input of encode and sync. each column is the label
// path of one leaf, each row holds one value per column in column order.
type DataFile struct {
	Columns [][]string `json:"columns"`
	Rows    []DataRow  `json:"rows"`
}

func readDataFile(path string) (DataFile, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return DataFile{}, err
	}
	var out DataFile
	err = json5.Unmarshal(contents, &out)
	if err != nil {
		return DataFile{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

func pathKey(p tree.Path) string {
	return strings.Join(p, "\x00")
}

// Table builds the schema and the rows. columns sharing a parent are grouped
// under it, so values are placed by path rather than by position.
func (d DataFile) Table() (tree.Branch, []htmltable.Row, error) {
	paths := make([]tree.Path, len(d.Columns))
	for i, c := range d.Columns {
		paths[i] = tree.Path(c)
	}
	schema, err := tree.Build(paths...)
	if err != nil {
		return tree.Branch{}, nil, err
	}
	order := tree.Paths(schema)

	rows := make([]htmltable.Row, len(d.Rows))
	for i, r := range d.Rows {
		if len(r.Values) != len(d.Columns) {
			return tree.Branch{}, nil, fmt.Errorf(
				"row %d (%q) has %d values for %d columns",
				i, r.Index, len(r.Values), len(d.Columns),
			)
		}
		byPath := make(map[string]tree.Value, len(paths))
		for c, p := range paths {
			byPath[pathKey(p)] = r.Values[c]
		}
		values := make([]tree.Value, len(order))
		for c, p := range order {
			values[c] = byPath[pathKey(p)]
		}
		record, err := tree.Assemble(schema, values)
		if err != nil {
			return tree.Branch{}, nil, err
		}
		rows[i] = htmltable.Row{Index: r.Index, Record: record.(tree.Branch)}
	}
	return schema, rows, nil
}
