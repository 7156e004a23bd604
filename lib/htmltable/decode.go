package htmltable

import (
	"fmt"
	"io"
	"iter"
	"niopendata/lib/tree"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// IndexLabel is the reserved label of the index column.
const IndexLabel = ""

type IndexBy string

const (
	// IndexByIndex returns the schema with every leaf populated.
	IndexByIndex IndexBy = "index"
	// IndexByRecord returns one record per data row keyed by its index.
	IndexByRecord IndexBy = "record"
)

// Row is one data row. Every leaf of Record holds exactly one value.
type Row struct {
	Index  string
	Record tree.Branch
}

type Decoded struct {
	// Populated is the schema with one value per data row in each leaf.
	Populated tree.Branch
	// Rows is only set when decoding with IndexByRecord.
	Rows []Row
}

// Decode pairs the leaves of schema with the data cells of g. Rows before
// Depth(schema) are header rows, every later row contributes its cells to
// the leaves in depth-first order.
func Decode(schema tree.Branch, g Grid, indexBy IndexBy) (Decoded, error) {
	if indexBy != IndexByIndex && indexBy != IndexByRecord {
		return Decoded{}, fmt.Errorf("%w: unsupported index_by %q", ErrInvalidArgument, indexBy)
	}
	err := tree.Validate(schema)
	if err != nil {
		return Decoded{}, err
	}

	populated, err := populate(schema, g)
	if err != nil {
		return Decoded{}, err
	}
	if indexBy == IndexByIndex {
		return Decoded{Populated: populated}, nil
	}

	rows, err := records(schema, populated)
	if err != nil {
		return Decoded{}, err
	}
	return Decoded{Populated: populated, Rows: rows}, nil
}

func (g Grid) cells(r int) iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		for _, c := range g.Row(r) {
			if !yield(c) {
				return
			}
		}
	}
}

func populate(schema tree.Branch, g Grid) (tree.Branch, error) {
	width := tree.Breadth(schema)
	columns := make([][]tree.Value, width)

	for r := tree.Depth(schema); r < g.Height(); r++ {
		next, stop := iter.Pull(g.cells(r))
		for leaf := 0; leaf < width; leaf++ {
			cell, ok := next()
			if !ok {
				break
			}
			columns[leaf] = append(columns[leaf], cell.Text)
		}
		extra, overflow := next()
		stop()
		if overflow {
			return tree.Branch{}, fmt.Errorf("%w: row %d, column %d", ErrRowOverflow, r, extra.Col)
		}
	}

	filled, err := tree.Fill(schema, columns)
	if err != nil {
		return tree.Branch{}, err
	}
	return filled.(tree.Branch), nil
}

func records(schema tree.Branch, populated tree.Branch) ([]Row, error) {
	heights := tree.Heights(populated)
	for _, h := range heights {
		if h != heights[0] {
			return nil, &HeightMismatchError{Heights: heights}
		}
	}
	count := 0
	if len(heights) > 0 {
		count = heights[0]
	}

	columns := make([][]tree.Value, 0, len(heights))
	for leaf := range tree.Leaves(populated) {
		columns = append(columns, leaf.Values)
	}

	rows := make([]Row, 0, count)
	for i := 0; i < count; i++ {
		values := make([]tree.Value, len(columns))
		for c := range columns {
			values[c] = columns[c][i]
		}
		assembled, err := tree.Assemble(schema, values)
		if err != nil {
			return nil, err
		}
		record := assembled.(tree.Branch)

		index := strconv.Itoa(i)
		if n, ok := record.Get(IndexLabel); ok {
			if leaf, isLeaf := n.(tree.Leaf); isLeaf {
				index = Stringify(leaf.Values[0])
				record = record.Without(IndexLabel)
			}
		}
		rows = append(rows, Row{Index: index, Record: record})
	}
	return rows, nil
}

// DecodeSelection decodes a <table> selection into records.
func DecodeSelection(table *goquery.Selection) (tree.Branch, []Row, error) {
	g, err := ParseGridSelection(table)
	if err != nil {
		return tree.Branch{}, nil, err
	}
	return decodeGrid(g)
}

// DecodeHTML decodes the first <table> in r into records.
func DecodeHTML(r io.Reader) (tree.Branch, []Row, error) {
	g, err := ParseGrid(r)
	if err != nil {
		return tree.Branch{}, nil, err
	}
	return decodeGrid(g)
}

// decodeGrid returns the inferred schema along with the records.
func decodeGrid(g Grid) (tree.Branch, []Row, error) {
	schema, err := BuildSchema(g)
	if err != nil {
		return tree.Branch{}, nil, err
	}
	decoded, err := Decode(schema, g, IndexByRecord)
	if err != nil {
		return tree.Branch{}, nil, err
	}
	return schema, decoded.Rows, nil
}
