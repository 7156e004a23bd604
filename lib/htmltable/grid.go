package htmltable

import (
	"fmt"
	"io"
	"niopendata/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Cell is one source cell placed at its top-left coordinate.
type Cell struct {
	Row     int
	Col     int
	Text    string
	Header  bool
	ColSpan int
	RowSpan int
}

type position struct {
	row int
	col int
}

// Grid is an HTML table with spans resolved, addressable by (row, col).
// Cells are stored at the coordinate of their top-left corner only.
type Grid struct {
	rows     [][]Cell
	header   []bool
	anchors  map[position]Cell
	occupied map[position]struct{}
	width    int
}

func newGrid() *Grid {
	return &Grid{
		anchors:  map[position]Cell{},
		occupied: map[position]struct{}{},
	}
}

func (g *Grid) addRow(header bool) {
	g.rows = append(g.rows, nil)
	g.header = append(g.header, header)
}

// set places c and claims every coordinate it spans. Claiming an
// already claimed coordinate means the markup is irregular.
func (g *Grid) set(c Cell) error {
	for r := c.Row; r < c.Row+c.RowSpan; r++ {
		for col := c.Col; col < c.Col+c.ColSpan; col++ {
			if _, taken := g.occupied[position{r, col}]; taken {
				return fmt.Errorf("%w: (%d, %d) already holds a cell", ErrCellOverlap, r, col)
			}
		}
	}
	for r := c.Row; r < c.Row+c.RowSpan; r++ {
		for col := c.Col; col < c.Col+c.ColSpan; col++ {
			g.occupied[position{r, col}] = struct{}{}
		}
	}
	g.anchors[position{c.Row, c.Col}] = c
	g.rows[c.Row] = append(g.rows[c.Row], c)
	g.width = max(g.width, c.Col+c.ColSpan)
	return nil
}

// At returns the cell whose top-left corner is (row, col).
func (g Grid) At(row, col int) (Cell, bool) {
	c, ok := g.anchors[position{row, col}]
	return c, ok
}

// Row returns the cells starting in row r, ordered by column.
func (g Grid) Row(r int) []Cell {
	if r < 0 || r >= len(g.rows) {
		return nil
	}
	return g.rows[r]
}

// Height is the number of <tr> rows.
func (g Grid) Height() int {
	return len(g.rows)
}

// Width is the number of columns after colspans are resolved.
func (g Grid) Width() int {
	return g.width
}

// HeaderDepth counts the leading rows that sit in a <thead> or hold only
// <th> cells.
func (g Grid) HeaderDepth() int {
	depth := 0
	for _, isHeader := range g.header {
		if !isHeader {
			break
		}
		depth++
	}
	return depth
}

// ParseGrid parses the first <table> found in r.
func ParseGrid(r io.Reader) (Grid, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Grid{}, err
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return Grid{}, ErrNoTable
	}
	return ParseGridSelection(table)
}

// ParseGridSelection resolves the rowspans and colspans of a <table>
// selection. skip[col] holds how many more rows a previous rowspan keeps
// col occupied.
func ParseGridSelection(table *goquery.Selection) (Grid, error) {
	if table.Length() == 0 {
		return Grid{}, ErrNoTable
	}
	table = table.First()

	rows := table.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		// rows of nested tables belong to those tables
		return tr.Closest("table").IsSelection(table)
	})

	g := newGrid()
	skip := map[int]int{}

	for r := 0; r < rows.Length(); r++ {
		tr := rows.Eq(r)
		cells := tr.ChildrenFiltered("th, td")
		g.addRow(isHeaderRow(tr, cells))

		col := 0
		for i := 0; i < cells.Length(); i++ {
			cell := cells.Eq(i)
			for skip[col] > 0 {
				col++
			}

			colspan := htmlutil.IntAttr(cell, "colspan", 1)
			rowspan := htmlutil.IntAttr(cell, "rowspan", 1)
			err := g.set(Cell{
				Row:     r,
				Col:     col,
				Text:    htmlutil.CellText(cell.Nodes[0]),
				Header:  goquery.NodeName(cell) == "th",
				ColSpan: colspan,
				RowSpan: rowspan,
			})
			if err != nil {
				return Grid{}, err
			}

			if rowspan > 1 {
				for c := col; c < col+colspan; c++ {
					skip[c] = rowspan
				}
			}
			col += colspan
		}

		for c, remaining := range skip {
			if remaining > 0 {
				skip[c] = remaining - 1
			}
		}
	}

	return *g, nil
}

func isHeaderRow(tr *goquery.Selection, cells *goquery.Selection) bool {
	if tr.Parent().Is("thead") {
		return true
	}
	if cells.Length() == 0 {
		return false
	}
	for _, n := range cells.Nodes {
		if n.Type != html.ElementNode || n.Data != "th" {
			return false
		}
	}
	return true
}
